package handlers

import (
	"context"

	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/services"
)

type mockUserService struct {
	CreateFunc        func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByIDFunc       func(ctx context.Context, id string) (*models.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	SearchFunc        func(ctx context.Context, currentUserID, query string) ([]models.UserSummary, error)
	SetAdminFunc      func(ctx context.Context, actorID, targetID string, isAdmin bool) (*models.User, error)
}

func (m *mockUserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockUserService) Search(ctx context.Context, currentUserID, query string) ([]models.UserSummary, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, currentUserID, query)
	}
	return []models.UserSummary{}, nil
}

func (m *mockUserService) SetAdmin(ctx context.Context, actorID, targetID string, isAdmin bool) (*models.User, error) {
	if m.SetAdminFunc != nil {
		return m.SetAdminFunc(ctx, actorID, targetID, isAdmin)
	}
	return nil, nil
}

type mockAuthService struct {
	RegisterFunc      func(ctx context.Context, username, password string) (*models.User, error)
	RegisterGuestFunc func(ctx context.Context) (*models.User, error)
	AuthenticateFunc  func(ctx context.Context, username, password string) (*models.User, error)
	IssueTokenFunc    func(user *models.User) (*services.Token, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*models.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, password)
	}
	return nil, nil
}

func (m *mockAuthService) RegisterGuest(ctx context.Context) (*models.User, error) {
	if m.RegisterGuestFunc != nil {
		return m.RegisterGuestFunc(ctx)
	}
	return nil, nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, username, password)
	}
	return nil, nil
}

func (m *mockAuthService) IssueToken(user *models.User) (*services.Token, error) {
	if m.IssueTokenFunc != nil {
		return m.IssueTokenFunc(user)
	}
	return &services.Token{Token: "token-" + user.ID}, nil
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, services.ErrInvalidToken
}

type mockFriendService struct {
	SendRequestFunc     func(ctx context.Context, requesterID, recipientID string) (*models.FriendshipChange, error)
	AcceptRequestFunc   func(ctx context.Context, requesterID, recipientID string) (*models.FriendshipChange, error)
	DeclineOrCancelFunc func(ctx context.Context, actorID, otherID string) (*models.FriendshipChange, error)
	RemoveFriendFunc    func(ctx context.Context, actorID, otherID string) (*models.FriendshipChange, error)
	ListFriendsFunc     func(ctx context.Context, userID string) (*models.FriendLists, error)
	IsFriendFunc        func(ctx context.Context, userID, otherUserID string) (bool, error)
}

func (m *mockFriendService) SendRequest(ctx context.Context, requesterID, recipientID string) (*models.FriendshipChange, error) {
	if m.SendRequestFunc != nil {
		return m.SendRequestFunc(ctx, requesterID, recipientID)
	}
	return nil, nil
}

func (m *mockFriendService) AcceptRequest(ctx context.Context, requesterID, recipientID string) (*models.FriendshipChange, error) {
	if m.AcceptRequestFunc != nil {
		return m.AcceptRequestFunc(ctx, requesterID, recipientID)
	}
	return nil, nil
}

func (m *mockFriendService) DeclineOrCancel(ctx context.Context, actorID, otherID string) (*models.FriendshipChange, error) {
	if m.DeclineOrCancelFunc != nil {
		return m.DeclineOrCancelFunc(ctx, actorID, otherID)
	}
	return nil, nil
}

func (m *mockFriendService) RemoveFriend(ctx context.Context, actorID, otherID string) (*models.FriendshipChange, error) {
	if m.RemoveFriendFunc != nil {
		return m.RemoveFriendFunc(ctx, actorID, otherID)
	}
	return nil, nil
}

func (m *mockFriendService) ListFriends(ctx context.Context, userID string) (*models.FriendLists, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, userID)
	}
	return &models.FriendLists{}, nil
}

func (m *mockFriendService) IsFriend(ctx context.Context, userID, otherUserID string) (bool, error) {
	if m.IsFriendFunc != nil {
		return m.IsFriendFunc(ctx, userID, otherUserID)
	}
	return false, nil
}

type mockNotificationService struct {
	ListFunc        func(ctx context.Context, userID string, params services.NotificationListParams) ([]models.Notification, error)
	MarkReadFunc    func(ctx context.Context, userID, notificationID string) error
	MarkAllReadFunc func(ctx context.Context, userID string) (int, error)
	UnreadCountFunc func(ctx context.Context, userID string) (int, error)
}

func (m *mockNotificationService) List(ctx context.Context, userID string, params services.NotificationListParams) ([]models.Notification, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, params)
	}
	return []models.Notification{}, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, userID, notificationID)
	}
	return nil
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockNotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, userID)
	}
	return 0, nil
}

type mockRoomService struct {
	CreateFunc      func(ctx context.Context, params models.CreateRoomParams) (*models.Room, error)
	GetForUserFunc  func(ctx context.Context, roomID, userID string) (*models.Room, error)
	ListForUserFunc func(ctx context.Context, userID string) ([]models.Room, error)
	InviteFunc      func(ctx context.Context, roomID, inviterID, inviteeID string) (*models.Room, error)
	JoinFunc        func(ctx context.Context, roomID, userID string) (*models.Room, error)
	LeaveFunc       func(ctx context.Context, roomID, userID string) (*models.Room, error)
	OpenDirectFunc  func(ctx context.Context, actorID, otherID string) (*models.Room, error)
}

func (m *mockRoomService) Create(ctx context.Context, params models.CreateRoomParams) (*models.Room, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockRoomService) GetForUser(ctx context.Context, roomID, userID string) (*models.Room, error) {
	if m.GetForUserFunc != nil {
		return m.GetForUserFunc(ctx, roomID, userID)
	}
	return nil, nil
}

func (m *mockRoomService) ListForUser(ctx context.Context, userID string) ([]models.Room, error) {
	if m.ListForUserFunc != nil {
		return m.ListForUserFunc(ctx, userID)
	}
	return []models.Room{}, nil
}

func (m *mockRoomService) Invite(ctx context.Context, roomID, inviterID, inviteeID string) (*models.Room, error) {
	if m.InviteFunc != nil {
		return m.InviteFunc(ctx, roomID, inviterID, inviteeID)
	}
	return nil, nil
}

func (m *mockRoomService) Join(ctx context.Context, roomID, userID string) (*models.Room, error) {
	if m.JoinFunc != nil {
		return m.JoinFunc(ctx, roomID, userID)
	}
	return nil, nil
}

func (m *mockRoomService) Leave(ctx context.Context, roomID, userID string) (*models.Room, error) {
	if m.LeaveFunc != nil {
		return m.LeaveFunc(ctx, roomID, userID)
	}
	return nil, nil
}

func (m *mockRoomService) OpenDirect(ctx context.Context, actorID, otherID string) (*models.Room, error) {
	if m.OpenDirectFunc != nil {
		return m.OpenDirectFunc(ctx, actorID, otherID)
	}
	return nil, nil
}

type mockMessageService struct {
	PostFunc func(ctx context.Context, roomID, senderID, body string) (*models.Message, error)
	ListFunc func(ctx context.Context, roomID, viewerID string, params models.MessageListParams) ([]models.Message, error)
}

func (m *mockMessageService) Post(ctx context.Context, roomID, senderID, body string) (*models.Message, error) {
	if m.PostFunc != nil {
		return m.PostFunc(ctx, roomID, senderID, body)
	}
	return nil, nil
}

func (m *mockMessageService) List(ctx context.Context, roomID, viewerID string, params models.MessageListParams) ([]models.Message, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, roomID, viewerID, params)
	}
	return []models.Message{}, nil
}

var (
	_ services.UserServiceInterface         = (*mockUserService)(nil)
	_ services.AuthServiceInterface         = (*mockAuthService)(nil)
	_ services.FriendServiceInterface       = (*mockFriendService)(nil)
	_ services.NotificationServiceInterface = (*mockNotificationService)(nil)
	_ services.RoomServiceInterface         = (*mockRoomService)(nil)
	_ services.MessageServiceInterface      = (*mockMessageService)(nil)
)
