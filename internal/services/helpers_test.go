package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

var baseTime = time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

// stepClock returns a strictly increasing time on every call.
type stepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{next: baseTime, step: time.Second}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

type seqIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

func (g *seqIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	backend, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return store.New(backend)
}

func newUser(id, username string) models.User {
	return models.User{
		ID:              id,
		Username:        username,
		FriendIDs:       models.IDSet{},
		PendingReceived: models.IDSet{},
		SentRequests:    models.IDSet{},
		CreatedAt:       baseTime,
	}
}

func seedUsers(t *testing.T, st *store.Store, users ...models.User) {
	t.Helper()
	require.NoError(t, store.NewCollection[models.User](st, store.KindUsers).SaveAll(context.Background(), users))
}

func seedRooms(t *testing.T, st *store.Store, rooms ...models.Room) {
	t.Helper()
	require.NoError(t, store.NewCollection[models.Room](st, store.KindRooms).SaveAll(context.Background(), rooms))
}

func loadUsers(t *testing.T, st *store.Store) map[string]models.User {
	t.Helper()
	users, err := store.NewCollection[models.User](st, store.KindUsers).Load(context.Background())
	require.NoError(t, err)
	out := make(map[string]models.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out
}

func loadRoom(t *testing.T, st *store.Store, id string) models.Room {
	t.Helper()
	rooms, err := store.NewCollection[models.Room](st, store.KindRooms).Load(context.Background())
	require.NoError(t, err)
	idx := findRoom(rooms, id)
	require.GreaterOrEqual(t, idx, 0, "room %s not found", id)
	return rooms[idx]
}

func loadNotifications(t *testing.T, st *store.Store) []models.Notification {
	t.Helper()
	all, err := store.NewCollection[models.Notification](st, store.KindNotifications).Load(context.Background())
	require.NoError(t, err)
	return all
}

func newTestNotificationService(st *store.Store) *NotificationService {
	svc := NewNotificationService(st)
	svc.now = newStepClock().Now
	svc.newID = (&seqIDs{prefix: "n"}).Next
	return svc
}

// holdDocument keeps the lock on kind until the returned release is called.
func holdDocument(t *testing.T, st *store.Store, kind store.Kind) (release func()) {
	t.Helper()
	held := make(chan struct{})
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_ = store.NewCollection[json.RawMessage](st, kind).View(context.Background(), func([]json.RawMessage) error {
			close(held)
			<-done
			return nil
		})
	}()
	<-held
	var once sync.Once
	release = func() {
		once.Do(func() {
			close(done)
			<-finished
		})
	}
	t.Cleanup(release)
	return release
}

// runAsync runs fn in a goroutine and closes the returned channel when it
// returns.
func runAsync(fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	return done
}

func requireBlocked(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
		t.Fatalf("%s finished while it should have been waiting", what)
	case <-time.After(50 * time.Millisecond):
	}
}
