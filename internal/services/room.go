package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/HammerMeetNail/chatcore/internal/logging"
	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

const (
	maxRoomNameLength = 100
	unknownActorName  = "Someone"
)

type RoomService struct {
	rooms    *store.Collection[models.Room]
	users    *store.Collection[models.User]
	notifier Notifier
	now      func() time.Time
	newID    func() string
	logger   *logging.Logger
}

func NewRoomService(st *store.Store, notifier Notifier) *RoomService {
	return &RoomService{
		rooms:    store.NewCollection[models.Room](st, store.KindRooms),
		users:    store.NewCollection[models.User](st, store.KindUsers),
		notifier: notifier,
		now:      utcNow,
		newID:    newUUID,
		logger:   logging.Default.WithField("service", "room"),
	}
}

// Create adds a room owned by params.OwnerID, who becomes its first member.
func (s *RoomService) Create(ctx context.Context, params models.CreateRoomParams) (*models.Room, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" || utf8.RuneCountInString(name) > maxRoomNameLength {
		return nil, ErrInvalidInput.WithMessage("room name must be between 1 and 100 characters")
	}

	room := models.Room{
		ID:        s.newID(),
		Name:      name,
		IsPrivate: params.IsPrivate,
		Members:   models.IDSet{params.OwnerID},
		OwnerID:   params.OwnerID,
		CreatedAt: s.now(),
	}
	err := s.users.View(ctx, func(users []models.User) error {
		if findUser(users, params.OwnerID) < 0 {
			return ErrUserNotFound
		}
		return s.rooms.Update(ctx, func(rooms []models.Room) ([]models.Room, error) {
			return append(rooms, room), nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("room created", map[string]interface{}{
		"room_id":    room.ID,
		"owner_id":   room.OwnerID,
		"is_private": room.IsPrivate,
	})
	return &room, nil
}

// GetForUser returns ErrRoomNotFound for private rooms the user cannot see so
// their existence is not revealed.
func (s *RoomService) GetForUser(ctx context.Context, roomID, userID string) (*models.Room, error) {
	isAdmin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := findRoom(rooms, roomID)
	if idx < 0 || !rooms[idx].VisibleTo(userID, isAdmin) {
		return nil, ErrRoomNotFound
	}
	return &rooms[idx], nil
}

// ListForUser returns public rooms plus every private room the user belongs
// to, in creation order. Admins get every room.
func (s *RoomService) ListForUser(ctx context.Context, userID string) ([]models.Room, error) {
	isAdmin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Room{}
	for _, r := range rooms {
		if r.VisibleTo(userID, isAdmin) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Invite adds inviteeID to a private room on behalf of its owner or an
// admin, then notifies the invitee.
func (s *RoomService) Invite(ctx context.Context, roomID, inviterID, inviteeID string) (*models.Room, error) {
	var (
		room    models.Room
		inviter *models.User
	)
	// The users lock is held across the rooms update so the inviter's admin
	// flag and the invitee's existence cannot change under the check.
	err := s.users.View(ctx, func(users []models.User) error {
		if idx := findUser(users, inviterID); idx >= 0 {
			u := users[idx]
			inviter = &u
		}
		return s.rooms.Update(ctx, func(rooms []models.Room) ([]models.Room, error) {
			idx := findRoom(rooms, roomID)
			if idx < 0 {
				return nil, ErrRoomNotFound
			}
			r := &rooms[idx]
			if !r.IsPrivate {
				return nil, ErrRoomIsPublic
			}
			isOwner := r.OwnerID != "" && r.OwnerID == inviterID
			isAdmin := inviter != nil && inviter.IsAdmin
			if r.IsDirect || !(isOwner || isAdmin) {
				return nil, ErrNotAuthorized
			}
			if r.IsMember(inviteeID) {
				return nil, ErrAlreadyMember
			}
			if findUser(users, inviteeID) < 0 {
				return nil, ErrUserNotFound
			}
			r.Members = r.Members.Add(inviteeID)
			room = *r
			return rooms, nil
		})
	})
	if err != nil {
		return nil, err
	}

	inviterName := unknownActorName
	params := models.CreateNotificationParams{
		RecipientID: inviteeID,
		Type:        models.NotificationTypeRoomInvite,
		Link:        "/rooms/" + room.ID,
		ActorID:     inviterID,
		RoomID:      room.ID,
		RoomName:    room.Name,
	}
	if inviter != nil {
		inviterName = inviter.Username
		params.ActorUsername = inviter.Username
	}
	params.Message = fmt.Sprintf("%s invited you to join %s", inviterName, room.Name)

	s.logger.Info("room invite", map[string]interface{}{
		"room_id":    room.ID,
		"inviter_id": inviterID,
		"invitee_id": inviteeID,
	})
	return &room, s.notify(ctx, params)
}

// Join adds a user to a public room.
func (s *RoomService) Join(ctx context.Context, roomID, userID string) (*models.Room, error) {
	var room models.Room
	err := s.users.View(ctx, func(users []models.User) error {
		if findUser(users, userID) < 0 {
			return ErrUserNotFound
		}
		return s.rooms.Update(ctx, func(rooms []models.Room) ([]models.Room, error) {
			idx := findRoom(rooms, roomID)
			if idx < 0 {
				return nil, ErrRoomNotFound
			}
			r := &rooms[idx]
			if r.IsPrivate {
				if r.IsMember(userID) {
					return nil, ErrAlreadyMember
				}
				return nil, ErrRoomIsPrivate
			}
			if r.IsMember(userID) {
				return nil, ErrAlreadyMember
			}
			r.Members = r.Members.Add(userID)
			room = *r
			return rooms, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) Leave(ctx context.Context, roomID, userID string) (*models.Room, error) {
	var room models.Room
	err := s.rooms.Update(ctx, func(rooms []models.Room) ([]models.Room, error) {
		idx := findRoom(rooms, roomID)
		if idx < 0 {
			return nil, ErrRoomNotFound
		}
		r := &rooms[idx]
		if !r.IsMember(userID) {
			if r.IsPrivate {
				return nil, ErrRoomNotFound
			}
			return nil, ErrNotMember
		}
		if r.OwnerID == userID {
			return nil, ErrOwnerCannotLeave
		}
		r.Members = r.Members.Remove(userID)
		room = *r
		return rooms, nil
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// OpenDirect returns the direct-message room shared by two friends, creating
// it on first use.
func (s *RoomService) OpenDirect(ctx context.Context, actorID, otherID string) (*models.Room, error) {
	if actorID == otherID {
		return nil, ErrInvalidInput.WithMessage("cannot open a direct conversation with yourself")
	}

	var room models.Room
	created := false
	err := s.users.View(ctx, func(users []models.User) error {
		ai, oi := findUser(users, actorID), findUser(users, otherID)
		if ai < 0 || oi < 0 {
			return ErrUserNotFound
		}
		actor, other := users[ai], users[oi]
		if !actor.FriendIDs.Has(other.ID) || !other.FriendIDs.Has(actor.ID) {
			return ErrNotFriends
		}

		return s.rooms.Update(ctx, func(rooms []models.Room) ([]models.Room, error) {
			created = false
			for _, r := range rooms {
				if r.IsDirect && len(r.Members) == 2 && r.IsMember(actorID) && r.IsMember(otherID) {
					room = r
					return nil, store.ErrNoChange
				}
			}
			room = models.Room{
				ID:        s.newID(),
				Name:      actor.Username + " & " + other.Username,
				IsPrivate: true,
				IsDirect:  true,
				Members:   models.IDSet{actorID, otherID},
				CreatedAt: s.now(),
			}
			created = true
			return append(rooms, room), nil
		})
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Info("direct room created", map[string]interface{}{
			"room_id":  room.ID,
			"actor_id": actorID,
			"other_id": otherID,
		})
	}
	return &room, nil
}

func (s *RoomService) lookupUser(ctx context.Context, userID string) (*models.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := findUser(users, userID)
	if idx < 0 {
		return nil, ErrUserNotFound
	}
	return &users[idx], nil
}

func (s *RoomService) isAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

func (s *RoomService) notify(ctx context.Context, params models.CreateNotificationParams) error {
	if s.notifier == nil {
		return nil
	}
	if _, err := s.notifier.Create(ctx, params); err != nil {
		s.logger.Error("failed to create notification", map[string]interface{}{
			"recipient_id": params.RecipientID,
			"room_id":      params.RoomID,
			"error":        err.Error(),
		})
		return fmt.Errorf("notifying %s: %w", params.RecipientID, err)
	}
	return nil
}

func findRoom(rooms []models.Room, id string) int {
	for i := range rooms {
		if rooms[i].ID == id {
			return i
		}
	}
	return -1
}
