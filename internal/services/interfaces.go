package services

import (
	"context"

	"github.com/HammerMeetNail/chatcore/internal/models"
)

// UserServiceInterface defines the contract for user operations.
type UserServiceInterface interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Search(ctx context.Context, currentUserID, query string) ([]models.UserSummary, error)
	SetAdmin(ctx context.Context, actorID, targetID string, isAdmin bool) (*models.User, error)
}

// AuthServiceInterface defines the contract for authentication operations.
type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	RegisterGuest(ctx context.Context) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	IssueToken(user *models.User) (*Token, error)
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// FriendServiceInterface defines the contract for friendship operations.
type FriendServiceInterface interface {
	SendRequest(ctx context.Context, requesterID, recipientID string) (*models.FriendshipChange, error)
	AcceptRequest(ctx context.Context, requesterID, recipientID string) (*models.FriendshipChange, error)
	DeclineOrCancel(ctx context.Context, actorID, otherID string) (*models.FriendshipChange, error)
	RemoveFriend(ctx context.Context, actorID, otherID string) (*models.FriendshipChange, error)
	ListFriends(ctx context.Context, userID string) (*models.FriendLists, error)
	IsFriend(ctx context.Context, userID, otherUserID string) (bool, error)
}

// NotificationServiceInterface defines the contract for notification reads
// and read-state changes.
type NotificationServiceInterface interface {
	List(ctx context.Context, userID string, params NotificationListParams) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

// RoomServiceInterface defines the contract for room membership.
type RoomServiceInterface interface {
	Create(ctx context.Context, params models.CreateRoomParams) (*models.Room, error)
	GetForUser(ctx context.Context, roomID, userID string) (*models.Room, error)
	ListForUser(ctx context.Context, userID string) ([]models.Room, error)
	Invite(ctx context.Context, roomID, inviterID, inviteeID string) (*models.Room, error)
	Join(ctx context.Context, roomID, userID string) (*models.Room, error)
	Leave(ctx context.Context, roomID, userID string) (*models.Room, error)
	OpenDirect(ctx context.Context, actorID, otherID string) (*models.Room, error)
}

// MessageServiceInterface defines the contract for room messages.
type MessageServiceInterface interface {
	Post(ctx context.Context, roomID, senderID, body string) (*models.Message, error)
	List(ctx context.Context, roomID, viewerID string, params models.MessageListParams) ([]models.Message, error)
}

var (
	_ UserServiceInterface         = (*UserService)(nil)
	_ AuthServiceInterface         = (*AuthService)(nil)
	_ FriendServiceInterface       = (*FriendService)(nil)
	_ NotificationServiceInterface = (*NotificationService)(nil)
	_ RoomServiceInterface         = (*RoomService)(nil)
	_ MessageServiceInterface      = (*MessageService)(nil)
	_ Notifier                     = (*NotificationService)(nil)
)
