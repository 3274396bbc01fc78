package handlers

import (
	"net/http"
	"time"

	"github.com/HammerMeetNail/chatcore/internal/apperr"
	"github.com/HammerMeetNail/chatcore/internal/models"
	"github.com/HammerMeetNail/chatcore/internal/services"
)

type MessageHandler struct {
	messageService services.MessageServiceInterface
}

func NewMessageHandler(messageService services.MessageServiceInterface) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type PostMessageRequest struct {
	Body string `json:"body"`
}

type MessageItemResponse struct {
	Message *models.Message `json:"message"`
}

type MessageListResponse struct {
	Messages []models.Message `json:"messages"`
}

func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	var req PostMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	msg, err := h.messageService.Post(r.Context(), r.PathValue("id"), user.ID, req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageItemResponse{Message: msg})
}

// List returns messages newer than the optional since parameter. Clients poll
// it with the timestamp of the last message they hold.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeUnauthenticated(w)
		return
	}

	params := models.MessageListParams{Limit: queryInt(r, "limit")}
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, apperr.CodeInvalidInput, "since must be an RFC 3339 timestamp")
			return
		}
		params.Since = &since
	}

	messages, err := h.messageService.List(r.Context(), r.PathValue("id"), user.ID, params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageListResponse{Messages: messages})
}
