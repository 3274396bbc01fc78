package handlers

import (
	"net/http"

	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/services"
)

type UserHandler struct {
	userService services.UserServiceInterface
}

func NewUserHandler(userService services.UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

type UserSearchResponse struct {
	Users []models.UserSummary `json:"users"`
}

type SetAdminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

type UserResponse struct {
	User models.PublicUser `json:"user"`
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	users, err := h.userService.Search(r.Context(), user.ID, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserSearchResponse{Users: users})
}

// SetAdmin grants or revokes the admin flag. Only admins may call it.
func (h *UserHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	var req SetAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	updated, err := h.userService.SetAdmin(r.Context(), user.ID, r.PathValue("id"), req.IsAdmin)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: updated.Public()})
}
