package handlers

import (
	"net/http"
	"time"

	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/services"
)

type AuthHandler struct {
	authService services.AuthServiceInterface
}

func NewAuthHandler(authService services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User      models.PublicUser `json:"user"`
	Token     string            `json:"token,omitempty"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.respondWithToken(w, r, http.StatusCreated, user)
}

// Guest creates a password-less account and signs it in.
func (h *AuthHandler) Guest(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.RegisterGuest(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.respondWithToken(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	user, err := h.authService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{User: user.Public()})
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := h.authService.IssueToken(user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, status, AuthResponse{
		User:      user.Public(),
		Token:     token.Token,
		ExpiresAt: &token.ExpiresAt,
	})
}
