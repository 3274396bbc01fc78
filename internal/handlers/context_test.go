package handlers

import (
	"context"
	"testing"

	"github.com/HammerMeetNail/chatcore/internal/models"
)

func TestGetUserFromContext_WithUser(t *testing.T) {
	user := &models.User{ID: "u1", Username: "alice"}

	retrieved := GetUserFromContext(SetUserInContext(context.Background(), user))
	if retrieved == nil {
		t.Fatal("expected user to be retrieved from context")
	}
	if retrieved.ID != user.ID || retrieved.Username != user.Username {
		t.Errorf("expected %+v, got %+v", user, retrieved)
	}
}

func TestGetUserFromContext_NoUser(t *testing.T) {
	if GetUserFromContext(context.Background()) != nil {
		t.Error("expected nil when no user in context")
	}
}

func TestGetUserFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), userContextKey, "not a user")
	if GetUserFromContext(ctx) != nil {
		t.Error("expected nil when context value is wrong type")
	}
}

func TestContextKey_UniqueType(t *testing.T) {
	ctx := SetUserInContext(context.Background(), &models.User{ID: "u1"})

	// Using a string key should not find the user
	if ctx.Value("user") != nil {
		t.Error("string key should not find user (type safety)")
	}
}

func TestSetUserInContext_OverwriteUser(t *testing.T) {
	ctx := SetUserInContext(context.Background(), &models.User{ID: "u1"})
	ctx = SetUserInContext(ctx, &models.User{ID: "u2"})

	retrieved := GetUserFromContext(ctx)
	if retrieved == nil || retrieved.ID != "u2" {
		t.Fatalf("expected second user to overwrite first, got %+v", retrieved)
	}
}
