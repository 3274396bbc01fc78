package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HammerMeetNail/chatcore/internal/apperr"
	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/services/mock"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

func newFriendFixture(t *testing.T, users ...models.User) (*FriendService, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	seedUsers(t, st, users...)
	return NewFriendService(st, newTestNotificationService(st)), st
}

func TestFriendService_RequestAcceptScenario(t *testing.T) {
	svc, st := newFriendFixture(t, newUser("u1", "alice"), newUser("u2", "bob"))
	ctx := context.Background()

	change, err := svc.SendRequest(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipRequested, change.Action)

	users := loadUsers(t, st)
	assert.Equal(t, models.IDSet{"u2"}, users["u1"].SentRequests)
	assert.Equal(t, models.IDSet{"u1"}, users["u2"].PendingReceived)
	assert.Empty(t, users["u1"].FriendIDs)
	assert.Empty(t, users["u2"].FriendIDs)

	notes := loadNotifications(t, st)
	require.Len(t, notes, 1)
	assert.Equal(t, "u2", notes[0].UserID)
	assert.Equal(t, models.NotificationTypeFriendRequestReceived, notes[0].Type)
	assert.Equal(t, "u1", notes[0].ActorID)
	assert.Equal(t, "alice", notes[0].ActorUsername)
	assert.Equal(t, "alice sent you a friend request", notes[0].Message)

	change, err = svc.AcceptRequest(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipAccepted, change.Action)
	assert.Equal(t, "u2", change.Actor.ID)
	assert.Equal(t, "u1", change.Other.ID)

	users = loadUsers(t, st)
	assert.Equal(t, models.IDSet{"u2"}, users["u1"].FriendIDs)
	assert.Equal(t, models.IDSet{"u1"}, users["u2"].FriendIDs)
	assert.Empty(t, users["u1"].SentRequests)
	assert.Empty(t, users["u2"].PendingReceived)

	notes = loadNotifications(t, st)
	require.Len(t, notes, 2)
	assert.Equal(t, "u1", notes[1].UserID)
	assert.Equal(t, models.NotificationTypeGeneric, notes[1].Type)
	assert.Equal(t, "bob accepted your friend request", notes[1].Message)
}

func TestFriendService_SendRequestFailures(t *testing.T) {
	friends := func() (models.User, models.User) {
		a, b := newUser("u1", "alice"), newUser("u2", "bob")
		a.FriendIDs = models.IDSet{"u2"}
		b.FriendIDs = models.IDSet{"u1"}
		return a, b
	}
	sent := func() (models.User, models.User) {
		a, b := newUser("u1", "alice"), newUser("u2", "bob")
		a.SentRequests = models.IDSet{"u2"}
		b.PendingReceived = models.IDSet{"u1"}
		return a, b
	}
	received := func() (models.User, models.User) {
		a, b := newUser("u1", "alice"), newUser("u2", "bob")
		b.SentRequests = models.IDSet{"u1"}
		a.PendingReceived = models.IDSet{"u2"}
		return a, b
	}

	tests := []struct {
		name        string
		setup       func() (models.User, models.User)
		requesterID string
		recipientID string
		want        error
	}{
		{"self", nil, "u1", "u1", ErrSelfRequest},
		{"unknown recipient", nil, "u1", "u9", ErrUserNotFound},
		{"unknown requester", nil, "u9", "u1", ErrUserNotFound},
		{"already friends", friends, "u1", "u2", ErrAlreadyFriends},
		{"already requested", sent, "u1", "u2", ErrAlreadyRequested},
		{"reciprocal pending", received, "u1", "u2", ErrReciprocalPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := newUser("u1", "alice"), newUser("u2", "bob")
			if tt.setup != nil {
				a, b = tt.setup()
			}
			ctrl := gomock.NewController(t)
			notifier := mock.NewMockNotifier(ctrl)
			st := newTestStore(t)
			seedUsers(t, st, a, b)
			before := loadUsers(t, st)

			_, err := NewFriendService(st, notifier).SendRequest(context.Background(), tt.requesterID, tt.recipientID)
			assert.True(t, errors.Is(err, tt.want), "expected %v, got %v", tt.want, err)
			assert.Equal(t, before, loadUsers(t, st), "state must be unchanged")
		})
	}
}

func TestFriendService_SendRequestTwice(t *testing.T) {
	svc, st := newFriendFixture(t, newUser("u1", "alice"), newUser("u2", "bob"))
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, "u1", "u2")
	require.NoError(t, err)
	before := loadUsers(t, st)

	_, err = svc.SendRequest(ctx, "u1", "u2")
	assert.True(t, errors.Is(err, ErrAlreadyRequested))
	assert.Equal(t, apperr.CodeAlreadyRequested, apperr.CodeOf(err))
	assert.Equal(t, before, loadUsers(t, st))
	assert.Len(t, loadNotifications(t, st), 1)
}

func TestFriendService_AcceptWithoutPendingRequest(t *testing.T) {
	svc, _ := newFriendFixture(t, newUser("u1", "alice"), newUser("u2", "bob"))
	ctx := context.Background()

	_, err := svc.AcceptRequest(ctx, "u1", "u2")
	assert.True(t, errors.Is(err, ErrNoPendingRequest))

	_, err = svc.AcceptRequest(ctx, "u1", "missing")
	assert.True(t, errors.Is(err, ErrUserNotFound))

	// The requester cannot accept its own request.
	_, err = svc.SendRequest(ctx, "u1", "u2")
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ctx, "u2", "u1")
	assert.True(t, errors.Is(err, ErrNoPendingRequest))
}

func TestFriendService_DeclineRestoresInitialState(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock.NewMockNotifier(ctrl)
	notifier.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&models.Notification{}, nil).Times(1)

	st := newTestStore(t)
	seedUsers(t, st, newUser("u1", "alice"), newUser("u2", "bob"))
	initial := loadUsers(t, st)
	svc := NewFriendService(st, notifier)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, "u1", "u2")
	require.NoError(t, err)

	change, err := svc.DeclineOrCancel(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipDeclined, change.Action)
	assert.Equal(t, initial, loadUsers(t, st))
}

func TestFriendService_CancelSentRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock.NewMockNotifier(ctrl)
	notifier.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&models.Notification{}, nil).Times(1)

	st := newTestStore(t)
	seedUsers(t, st, newUser("u1", "alice"), newUser("u2", "bob"))
	initial := loadUsers(t, st)
	svc := NewFriendService(st, notifier)
	ctx := context.Background()

	_, err := svc.SendRequest(ctx, "u1", "u2")
	require.NoError(t, err)

	change, err := svc.DeclineOrCancel(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipCancelled, change.Action)
	assert.Equal(t, initial, loadUsers(t, st))

	_, err = svc.DeclineOrCancel(ctx, "u1", "u2")
	assert.True(t, errors.Is(err, ErrNoActiveRequest))
}

func TestFriendService_RemoveFriend(t *testing.T) {
	a, b := newUser("u1", "alice"), newUser("u2", "bob")
	a.FriendIDs = models.IDSet{"u2"}
	b.FriendIDs = models.IDSet{"u1"}

	ctrl := gomock.NewController(t)
	st := newTestStore(t)
	seedUsers(t, st, a, b)
	svc := NewFriendService(st, mock.NewMockNotifier(ctrl))
	ctx := context.Background()

	change, err := svc.RemoveFriend(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipRemoved, change.Action)

	users := loadUsers(t, st)
	assert.False(t, users["u1"].FriendIDs.Has("u2"))
	assert.False(t, users["u2"].FriendIDs.Has("u1"))

	_, err = svc.RemoveFriend(ctx, "u1", "u2")
	assert.True(t, errors.Is(err, ErrNotFriends))
}

func TestFriendService_RemoveFriendRepairsOneSidedEdge(t *testing.T) {
	a, b := newUser("u1", "alice"), newUser("u2", "bob")
	b.FriendIDs = models.IDSet{"u1"}
	svc, st := newFriendFixture(t, a, b)

	_, err := svc.RemoveFriend(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.Empty(t, loadUsers(t, st)["u2"].FriendIDs)
}

func TestFriendService_NotifyFailureKeepsRelationship(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mock.NewMockNotifier(ctrl)
	writeErr := ErrStorageWriteFailed.Wrap(errors.New("disk full"))
	notifier.EXPECT().
		Create(gomock.Any(), models.CreateNotificationParams{
			RecipientID:   "u2",
			Type:          models.NotificationTypeFriendRequestReceived,
			Message:       "alice sent you a friend request",
			Link:          "/friends",
			ActorID:       "u1",
			ActorUsername: "alice",
		}).
		Return(nil, writeErr)

	st := newTestStore(t)
	seedUsers(t, st, newUser("u1", "alice"), newUser("u2", "bob"))

	change, err := NewFriendService(st, notifier).SendRequest(context.Background(), "u1", "u2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorageWriteFailed))
	require.NotNil(t, change)
	assert.True(t, loadUsers(t, st)["u2"].PendingReceived.Has("u1"))
}

func TestFriendService_ConcurrentRequestsKeepEveryEdge(t *testing.T) {
	const senders = 30
	users := []models.User{newUser("target", "target")}
	for i := 0; i < senders; i++ {
		users = append(users, newUser(fmt.Sprintf("s%d", i), fmt.Sprintf("sender%d", i)))
	}
	svc, st := newFriendFixture(t, users...)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.SendRequest(ctx, fmt.Sprintf("s%d", i), "target")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored := loadUsers(t, st)
	assert.Len(t, stored["target"].PendingReceived, senders)
	for i := 0; i < senders; i++ {
		assert.Equal(t, models.IDSet{"target"}, stored[fmt.Sprintf("s%d", i)].SentRequests)
	}
	assert.Len(t, loadNotifications(t, st), senders)
}

func TestFriendService_ListFriends(t *testing.T) {
	me := newUser("u1", "mallory")
	me.FriendIDs = models.IDSet{"u3", "u2"}
	me.PendingReceived = models.IDSet{"u4"}
	me.SentRequests = models.IDSet{"u5", "ghost"}
	svc, _ := newFriendFixture(t,
		me,
		newUser("u2", "Zed"),
		newUser("u3", "amy"),
		newUser("u4", "carl"),
		newUser("u5", "dana"),
	)

	lists, err := svc.ListFriends(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.UserSummary{{ID: "u3", Username: "amy"}, {ID: "u2", Username: "Zed"}}, lists.Friends)
	assert.Equal(t, []models.UserSummary{{ID: "u4", Username: "carl"}}, lists.Pending)
	assert.Equal(t, []models.UserSummary{{ID: "u5", Username: "dana"}}, lists.Sent)

	ok, err := svc.IsFriend(context.Background(), "u1", "u2")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.ListFriends(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}
