package main

import (
	"net/http"

	"github.com/HammerMeetNail/chatcore/internal/config"
	"github.com/HammerMeetNail/chatcore/internal/handlers"
	"github.com/HammerMeetNail/chatcore/internal/logging"
	"github.com/HammerMeetNail/chatcore/internal/middleware"
	"github.com/HammerMeetNail/chatcore/internal/services"
	"github.com/HammerMeetNail/chatcore/internal/store"
)

// app holds the services behind the HTTP API.
type app struct {
	users         *services.UserService
	auth          *services.AuthService
	friends       *services.FriendService
	notifications *services.NotificationService
	rooms         *services.RoomService
	messages      *services.MessageService
}

func newApp(st *store.Store, authCfg config.AuthConfig) *app {
	users := services.NewUserService(st)
	notifications := services.NewNotificationService(st)
	return &app{
		users:         users,
		auth:          services.NewAuthService(users, authCfg.JWTSecret, authCfg.TokenTTL),
		friends:       services.NewFriendService(st, notifications),
		notifications: notifications,
		rooms:         services.NewRoomService(st, notifications),
		messages:      services.NewMessageService(st),
	}
}

type routerOptions struct {
	health       *handlers.HealthHandler
	loginLimiter *middleware.RateLimiter // nil disables login rate limiting
	logger       *logging.Logger
	secure       bool
}

func newRouter(a *app, opts routerOptions) http.Handler {
	authHandler := handlers.NewAuthHandler(a.auth)
	userHandler := handlers.NewUserHandler(a.users)
	friendHandler := handlers.NewFriendHandler(a.friends)
	notificationHandler := handlers.NewNotificationHandler(a.notifications)
	roomHandler := handlers.NewRoomHandler(a.rooms)
	messageHandler := handlers.NewMessageHandler(a.messages)

	authMiddleware := middleware.NewAuthMiddleware(a.auth)
	requireAuth := authMiddleware.RequireAuth
	limitLogin := func(h http.Handler) http.Handler { return h }
	if opts.loginLimiter != nil {
		limitLogin = opts.loginLimiter.Middleware
	}

	mux := http.NewServeMux()

	// Health endpoints (no auth, no rate limit)
	if opts.health != nil {
		mux.HandleFunc("GET /health", opts.health.Health)
		mux.HandleFunc("GET /ready", opts.health.Ready)
		mux.HandleFunc("GET /live", opts.health.Live)
	}

	// Auth endpoints
	mux.Handle("POST /api/auth/register", limitLogin(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/guest", limitLogin(http.HandlerFunc(authHandler.Guest)))
	mux.Handle("POST /api/auth/login", limitLogin(http.HandlerFunc(authHandler.Login)))
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))

	// User endpoints
	mux.Handle("GET /api/users/search", requireAuth(http.HandlerFunc(userHandler.Search)))
	mux.Handle("PUT /api/users/{id}/admin", requireAuth(http.HandlerFunc(userHandler.SetAdmin)))

	// Friend endpoints
	mux.Handle("GET /api/friends", requireAuth(http.HandlerFunc(friendHandler.List)))
	mux.Handle("POST /api/friends/requests", requireAuth(http.HandlerFunc(friendHandler.SendRequest)))
	mux.Handle("PUT /api/friends/requests/{id}/accept", requireAuth(http.HandlerFunc(friendHandler.AcceptRequest)))
	mux.Handle("DELETE /api/friends/requests/{id}", requireAuth(http.HandlerFunc(friendHandler.DeclineOrCancel)))
	mux.Handle("DELETE /api/friends/{id}", requireAuth(http.HandlerFunc(friendHandler.Remove)))

	// Notification endpoints
	mux.Handle("GET /api/notifications", requireAuth(http.HandlerFunc(notificationHandler.List)))
	mux.Handle("GET /api/notifications/unread-count", requireAuth(http.HandlerFunc(notificationHandler.UnreadCount)))
	mux.Handle("PUT /api/notifications/read-all", requireAuth(http.HandlerFunc(notificationHandler.MarkAllRead)))
	mux.Handle("PUT /api/notifications/{id}/read", requireAuth(http.HandlerFunc(notificationHandler.MarkRead)))

	// Room endpoints
	mux.Handle("POST /api/rooms", requireAuth(http.HandlerFunc(roomHandler.Create)))
	mux.Handle("GET /api/rooms", requireAuth(http.HandlerFunc(roomHandler.List)))
	mux.Handle("GET /api/rooms/{id}", requireAuth(http.HandlerFunc(roomHandler.Get)))
	mux.Handle("POST /api/rooms/{id}/invites", requireAuth(http.HandlerFunc(roomHandler.Invite)))
	mux.Handle("POST /api/rooms/{id}/join", requireAuth(http.HandlerFunc(roomHandler.Join)))
	mux.Handle("POST /api/rooms/{id}/leave", requireAuth(http.HandlerFunc(roomHandler.Leave)))
	mux.Handle("POST /api/direct/{id}", requireAuth(http.HandlerFunc(roomHandler.OpenDirect)))

	// Message endpoints
	mux.Handle("GET /api/rooms/{id}/messages", requireAuth(http.HandlerFunc(messageHandler.List)))
	mux.Handle("POST /api/rooms/{id}/messages", requireAuth(http.HandlerFunc(messageHandler.Post)))

	// Build middleware chain (order matters: outermost last)
	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = middleware.NewSecurityHeaders(opts.secure).Apply(handler)
	handler = middleware.NewRequestLogger(opts.logger).Apply(handler)
	return handler
}
