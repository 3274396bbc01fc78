package handlers

import (
	"net/http"
	"strings"

	"github.com/HammerMeetNail/chatcore/internal/apperr"
	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/services"
)

type RoomHandler struct {
	roomService services.RoomServiceInterface
}

func NewRoomHandler(roomService services.RoomServiceInterface) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

type CreateRoomRequest struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
}

type RoomResponse struct {
	Room *models.Room `json:"room"`
}

type RoomListResponse struct {
	Rooms []models.Room `json:"rooms"`
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	var req CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	room, err := h.roomService.Create(r.Context(), models.CreateRoomParams{
		OwnerID:   user.ID,
		Name:      req.Name,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, RoomResponse{Room: room})
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	rooms, err := h.roomService.ListForUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoomListResponse{Rooms: rooms})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	room, err := h.roomService.GetForUser(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoomResponse{Room: room})
}

// Invite adds a user to a private room. The membership change stands even
// when the invite notification could not be stored.
func (h *RoomHandler) Invite(w http.ResponseWriter, r *http.Request) {
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

	room, err := h.roomService.Invite(r.Context(), r.PathValue("id"), user.ID, req.UserID)
	if room == nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoomResponse{Room: room})
}

func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	room, err := h.roomService.Join(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoomResponse{Room: room})
}

func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	room, err := h.roomService.Leave(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoomResponse{Room: room})
}

func (h *RoomHandler) OpenDirect(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	room, err := h.roomService.OpenDirect(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoomResponse{Room: room})
}
