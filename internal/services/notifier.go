package services

//go:generate mockgen -source=notifier.go -destination=mock/notifier.go -package=mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/HammerMeetNail/chatcore/internal/models"
)

// Notifier appends a notification for a recipient. Relationship and room
// operations call it after their own write has been persisted.
type Notifier interface {
	Create(ctx context.Context, params models.CreateNotificationParams) (*models.Notification, error)
}

func newUUID() string {
	return uuid.NewString()
}

func utcNow() time.Time {
	return time.Now().UTC()
}
