package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/HammerMeetNail/chatcore/internal/logging"
	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)

type NotificationListParams struct {
	Limit      int
	Before     *time.Time
	UnreadOnly bool
}

// NotificationService is the fan-out target for relationship and room
// events. Notifications are append-only; only the read flag ever changes.
type NotificationService struct {
	notifications *store.Collection[models.Notification]
	now           func() time.Time
	newID         func() string
	logger        *logging.Logger
}

func NewNotificationService(st *store.Store) *NotificationService {
	return &NotificationService{
		notifications: store.NewCollection[models.Notification](st, store.KindNotifications),
		now:           utcNow,
		newID:         newUUID,
		logger:        logging.Default.WithField("service", "notification"),
	}
}

// Create appends a notification. Identical notifications are not merged.
func (s *NotificationService) Create(ctx context.Context, params models.CreateNotificationParams) (*models.Notification, error) {
	if strings.TrimSpace(params.RecipientID) == "" {
		return nil, ErrInvalidInput.WithMessage("notification recipient is required")
	}
	if !params.Type.Valid() {
		return nil, ErrInvalidInput.WithMessage("unknown notification type")
	}

	n := models.Notification{
		ID:            s.newID(),
		UserID:        params.RecipientID,
		Type:          params.Type,
		Message:       params.Message,
		Link:          params.Link,
		Timestamp:     s.now(),
		ActorID:       params.ActorID,
		ActorUsername: params.ActorUsername,
		RoomID:        params.RoomID,
		RoomName:      params.RoomName,
	}
	err := s.notifications.Update(ctx, func(all []models.Notification) ([]models.Notification, error) {
		return append(all, n), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("notification created", map[string]interface{}{
		"notification_id": n.ID,
		"user_id":         n.UserID,
		"type":            string(n.Type),
	})
	return &n, nil
}

// List returns the user's notifications newest first. Notifications with the
// same timestamp keep the order they were created in.
func (s *NotificationService) List(ctx context.Context, userID string, params NotificationListParams) ([]models.Notification, error) {
	limit := params.Limit
	if limit <= 0 || limit > maxNotificationLimit {
		limit = defaultNotificationLimit
	}

	all, err := s.notifications.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := []models.Notification{}
	for _, n := range all {
		if n.UserID != userID {
			continue
		}
		if params.UnreadOnly && n.IsRead {
			continue
		}
		if params.Before != nil && !n.Timestamp.Before(*params.Before) {
			continue
		}
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MarkRead fails with ErrNotificationNotFound when the notification does not
// exist or belongs to someone else. Marking a read notification again
// succeeds without a write.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.notifications.Update(ctx, func(all []models.Notification) ([]models.Notification, error) {
		for i := range all {
			if all[i].ID != notificationID {
				continue
			}
			if all[i].UserID != userID {
				return nil, ErrNotificationNotFound
			}
			if all[i].IsRead {
				return nil, store.ErrNoChange
			}
			all[i].IsRead = true
			return all, nil
		}
		return nil, ErrNotificationNotFound
	})
}

// MarkAllRead returns how many notifications changed. Zero unread is not an
// error.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	var updated int
	err := s.notifications.Update(ctx, func(all []models.Notification) ([]models.Notification, error) {
		updated = 0
		for i := range all {
			if all[i].UserID == userID && !all[i].IsRead {
				all[i].IsRead = true
				updated++
			}
		}
		if updated == 0 {
			return nil, store.ErrNoChange
		}
		return all, nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	all, err := s.notifications.Load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range all {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
