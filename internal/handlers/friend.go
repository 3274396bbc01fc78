package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/HammerMeetNail/chatcore/internal/apperr"
	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/services"
)

type FriendHandler struct {
	friendService services.FriendServiceInterface
}

func NewFriendHandler(friendService services.FriendServiceInterface) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

type TargetUserRequest struct {
	UserID string `json:"userId"`
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	lists, err := h.friendService.ListFriends(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	var req TargetUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, apperr.CodeInvalidInput, "userId is required")
		return
	}

	h.respond(w, r, http.StatusCreated, func(ctx context.Context) (*models.FriendshipChange, error) {
		return h.friendService.SendRequest(ctx, user.ID, req.UserID)
	})
}

// AcceptRequest accepts the request the path user sent to the caller.
func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	requesterID := r.PathValue("id")
	h.respond(w, r, http.StatusOK, func(ctx context.Context) (*models.FriendshipChange, error) {
		return h.friendService.AcceptRequest(ctx, requesterID, user.ID)
	})
}

// DeclineOrCancel drops a pending request in either direction.
func (h *FriendHandler) DeclineOrCancel(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	otherID := r.PathValue("id")
	h.respond(w, r, http.StatusOK, func(ctx context.Context) (*models.FriendshipChange, error) {
		return h.friendService.DeclineOrCancel(ctx, user.ID, otherID)
	})
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	otherID := r.PathValue("id")
	h.respond(w, r, http.StatusOK, func(ctx context.Context) (*models.FriendshipChange, error) {
		return h.friendService.RemoveFriend(ctx, user.ID, otherID)
	})
}

// respond writes the change when one was persisted. A notification failure
// after the write leaves the change in place, so it is still a success.
func (h *FriendHandler) respond(w http.ResponseWriter, r *http.Request, status int, op func(ctx context.Context) (*models.FriendshipChange, error)) {
	change, err := op(r.Context())
	if change == nil {
		if err == nil {
			err = apperr.New(apperr.CodeInternal, internalErrorMessage)
		}
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, status, change)
}
