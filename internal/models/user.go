package models

import (
	"time"
)

type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	PasswordHash    string    `json:"passwordOpaque,omitempty"`
	IsGuest         bool      `json:"isGuest"`
	IsAdmin         bool      `json:"isAdmin"`
	FriendIDs       IDSet     `json:"friendIds"`
	PendingReceived IDSet     `json:"pendingReceived"`
	SentRequests    IDSet     `json:"sentRequests"`
	CreatedAt       time.Time `json:"createdAt"`
}

// PublicUser is the view of a user returned to clients. It never carries the
// password hash.
type PublicUser struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	IsGuest         bool      `json:"isGuest"`
	IsAdmin         bool      `json:"isAdmin"`
	FriendIDs       IDSet     `json:"friendIds"`
	PendingReceived IDSet     `json:"pendingReceived"`
	SentRequests    IDSet     `json:"sentRequests"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Username:        u.Username,
		IsGuest:         u.IsGuest,
		IsAdmin:         u.IsAdmin,
		FriendIDs:       u.FriendIDs,
		PendingReceived: u.PendingReceived,
		SentRequests:    u.SentRequests,
		CreatedAt:       u.CreatedAt,
	}
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type CreateUserParams struct {
	Username     string
	PasswordHash string
	IsGuest      bool
	IsAdmin      bool
}
