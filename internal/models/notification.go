package models

import "time"

type NotificationType string

const (
	NotificationTypeFriendRequestReceived NotificationType = "friend_request_received"
	NotificationTypeRoomInvite            NotificationType = "room_invite"
	NotificationTypeGeneric               NotificationType = "generic"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeFriendRequestReceived, NotificationTypeRoomInvite, NotificationTypeGeneric:
		return true
	}
	return false
}

// Notification is immutable once created except for IsRead.
type Notification struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	Type          NotificationType `json:"type"`
	Message       string           `json:"message"`
	Link          string           `json:"link,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
	IsRead        bool             `json:"isRead"`
	ActorID       string           `json:"actorId,omitempty"`
	ActorUsername string           `json:"actorUsername,omitempty"`
	RoomID        string           `json:"roomId,omitempty"`
	RoomName      string           `json:"roomName,omitempty"`
}

type CreateNotificationParams struct {
	RecipientID   string
	Type          NotificationType
	Message       string
	Link          string
	ActorID       string
	ActorUsername string
	RoomID        string
	RoomName      string
}
