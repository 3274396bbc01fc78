package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/HammerMeetNail/chatcore/internal/apperr"
	"github.com/HammerMeetNail/chatcore/internal/logging"
)

const internalErrorMessage = "Internal server error"

var logger = logging.Default.WithField("component", "handlers")

type ErrorResponse struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code apperr.Code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

func writeUnauthenticated(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, apperr.CodeUnauthenticated, "Authentication required")
}

func writeInvalidBody(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, apperr.CodeInvalidInput, "Invalid request body")
}

// writeServiceError renders err using its apperr code. Errors without a
// known code are logged and reported as an internal error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	status := StatusForCode(code)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"code":   string(code),
			"error":  err.Error(),
		})
		if code == apperr.CodeUnknown {
			code = apperr.CodeInternal
		}
		writeError(w, status, code, internalErrorMessage)
		return
	}
	writeError(w, status, code, apperr.MessageOf(err))
}

// StatusForCode maps an error code to its HTTP status.
func StatusForCode(code apperr.Code) int {
	switch code {
	case apperr.CodeNotFound, apperr.CodeRoomNotFound, apperr.CodeNotFoundOrForbidden:
		return http.StatusNotFound
	case apperr.CodeNotAuthorized, apperr.CodeRoomIsPrivate, apperr.CodeNotMember:
		return http.StatusForbidden
	case apperr.CodeSelfRequest, apperr.CodeRoomIsPublic, apperr.CodeInvalidInput:
		return http.StatusBadRequest
	case apperr.CodeAlreadyFriends, apperr.CodeAlreadyRequested, apperr.CodeReciprocalPending,
		apperr.CodeNoPendingRequest, apperr.CodeNoActiveRequest, apperr.CodeNotFriends,
		apperr.CodeAlreadyMember, apperr.CodeOwnerCannotLeave, apperr.CodeUsernameTaken:
		return http.StatusConflict
	case apperr.CodeInvalidCredentials, apperr.CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// queryInt returns the named query parameter as an int, or 0 when it is
// absent or malformed.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}
