package services

import (
	"context"
	"fmt"

	"github.com/HammerMeetNail/chatcore/internal/logging"
	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

// FriendService runs the friend-request state machine. Every operation
// mutates both user records inside one store update, so the mirrored edges
// are written together or not at all.
type FriendService struct {
	users    *store.Collection[models.User]
	notifier Notifier
	logger   *logging.Logger
}

func NewFriendService(st *store.Store, notifier Notifier) *FriendService {
	return &FriendService{
		users:    store.NewCollection[models.User](st, store.KindUsers),
		notifier: notifier,
		logger:   logging.Default.WithField("service", "friend"),
	}
}

type userPair struct {
	actor models.User
	other models.User
}

func (p userPair) change(action models.FriendshipAction) *models.FriendshipChange {
	return &models.FriendshipChange{
		Action: action,
		Actor:  p.actor.Public(),
		Other:  p.other.Public(),
	}
}

// updatePair loads both users and hands them to fn. The users are persisted
// only when fn returns nil.
func (s *FriendService) updatePair(ctx context.Context, actorID, otherID string, fn func(actor, other *models.User) error) (userPair, error) {
	var pair userPair
	err := s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		ai, oi := findUser(users, actorID), findUser(users, otherID)
		if ai < 0 || oi < 0 {
			return nil, ErrUserNotFound
		}
		actor, other := &users[ai], &users[oi]
		if err := fn(actor, other); err != nil {
			return nil, err
		}
		pair = userPair{actor: *actor, other: *other}
		return users, nil
	})
	return pair, err
}

func (s *FriendService) SendRequest(ctx context.Context, requesterID, recipientID string) (*models.FriendshipChange, error) {
	if requesterID == recipientID {
		return nil, ErrSelfRequest
	}

	pair, err := s.updatePair(ctx, requesterID, recipientID, func(requester, recipient *models.User) error {
		switch {
		case requester.FriendIDs.Has(recipient.ID) || recipient.FriendIDs.Has(requester.ID):
			return ErrAlreadyFriends
		case requester.SentRequests.Has(recipient.ID) || recipient.PendingReceived.Has(requester.ID):
			return ErrAlreadyRequested
		case recipient.SentRequests.Has(requester.ID) || requester.PendingReceived.Has(recipient.ID):
			return ErrReciprocalPending
		}
		requester.SentRequests = requester.SentRequests.Add(recipient.ID)
		recipient.PendingReceived = recipient.PendingReceived.Add(requester.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("friend request sent", map[string]interface{}{
		"requester_id": requesterID,
		"recipient_id": recipientID,
	})

	change := pair.change(models.FriendshipRequested)
	err = s.notify(ctx, models.CreateNotificationParams{
		RecipientID:   pair.other.ID,
		Type:          models.NotificationTypeFriendRequestReceived,
		Message:       fmt.Sprintf("%s sent you a friend request", pair.actor.Username),
		Link:          "/friends",
		ActorID:       pair.actor.ID,
		ActorUsername: pair.actor.Username,
	})
	return change, err
}

// AcceptRequest is performed by the recipient of a pending request.
func (s *FriendService) AcceptRequest(ctx context.Context, requesterID, recipientID string) (*models.FriendshipChange, error) {
	pair, err := s.updatePair(ctx, recipientID, requesterID, func(recipient, requester *models.User) error {
		if !recipient.PendingReceived.Has(requester.ID) {
			return ErrNoPendingRequest
		}
		recipient.PendingReceived = recipient.PendingReceived.Remove(requester.ID)
		requester.SentRequests = requester.SentRequests.Remove(recipient.ID)
		recipient.FriendIDs = recipient.FriendIDs.Add(requester.ID)
		requester.FriendIDs = requester.FriendIDs.Add(recipient.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("friend request accepted", map[string]interface{}{
		"requester_id": requesterID,
		"recipient_id": recipientID,
	})

	change := pair.change(models.FriendshipAccepted)
	err = s.notify(ctx, models.CreateNotificationParams{
		RecipientID:   pair.other.ID,
		Type:          models.NotificationTypeGeneric,
		Message:       fmt.Sprintf("%s accepted your friend request", pair.actor.Username),
		Link:          "/friends",
		ActorID:       pair.actor.ID,
		ActorUsername: pair.actor.Username,
	})
	return change, err
}

// DeclineOrCancel removes a pending request in either direction. A request
// the actor received is declined; one the actor sent is cancelled. Neither
// sends a notification.
func (s *FriendService) DeclineOrCancel(ctx context.Context, actorID, otherID string) (*models.FriendshipChange, error) {
	var action models.FriendshipAction
	pair, err := s.updatePair(ctx, actorID, otherID, func(actor, other *models.User) error {
		switch {
		case actor.PendingReceived.Has(other.ID):
			action = models.FriendshipDeclined
			actor.PendingReceived = actor.PendingReceived.Remove(other.ID)
			other.SentRequests = other.SentRequests.Remove(actor.ID)
		case actor.SentRequests.Has(other.ID):
			action = models.FriendshipCancelled
			actor.SentRequests = actor.SentRequests.Remove(other.ID)
			other.PendingReceived = other.PendingReceived.Remove(actor.ID)
		default:
			return ErrNoActiveRequest
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("friend request "+string(action), map[string]interface{}{
		"actor_id": actorID,
		"other_id": otherID,
	})
	return pair.change(action), nil
}

// RemoveFriend drops the friend edge from both users. A one-sided edge left
// by an earlier partial write is removed as well.
func (s *FriendService) RemoveFriend(ctx context.Context, actorID, otherID string) (*models.FriendshipChange, error) {
	pair, err := s.updatePair(ctx, actorID, otherID, func(actor, other *models.User) error {
		if actor.ID == other.ID || (!actor.FriendIDs.Has(other.ID) && !other.FriendIDs.Has(actor.ID)) {
			return ErrNotFriends
		}
		actor.FriendIDs = actor.FriendIDs.Remove(other.ID)
		other.FriendIDs = other.FriendIDs.Remove(actor.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("friend removed", map[string]interface{}{
		"actor_id": actorID,
		"other_id": otherID,
	})
	return pair.change(models.FriendshipRemoved), nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID string) (*models.FriendLists, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := findUser(users, userID)
	if idx < 0 {
		return nil, ErrUserNotFound
	}
	user := users[idx]

	return &models.FriendLists{
		Friends: summaries(users, user.FriendIDs),
		Pending: summaries(users, user.PendingReceived),
		Sent:    summaries(users, user.SentRequests),
	}, nil
}

func (s *FriendService) IsFriend(ctx context.Context, userID, otherUserID string) (bool, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return false, err
	}
	idx := findUser(users, userID)
	if idx < 0 {
		return false, ErrUserNotFound
	}
	return users[idx].FriendIDs.Has(otherUserID), nil
}

// notify runs after the relationship change is stored. A failure here does
// not undo that change; it is logged and returned to the caller.
func (s *FriendService) notify(ctx context.Context, params models.CreateNotificationParams) error {
	if s.notifier == nil {
		return nil
	}
	if _, err := s.notifier.Create(ctx, params); err != nil {
		s.logger.Error("failed to create notification", map[string]interface{}{
			"recipient_id": params.RecipientID,
			"type":         string(params.Type),
			"error":        err.Error(),
		})
		return fmt.Errorf("notifying %s: %w", params.RecipientID, err)
	}
	return nil
}

// summaries resolves ids to user summaries sorted by username. Ids with no
// matching user are skipped.
func summaries(users []models.User, ids models.IDSet) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if idx := findUser(users, id); idx >= 0 {
			out = append(out, users[idx].Summary())
		}
	}
	sortSummaries(out)
	return out
}
