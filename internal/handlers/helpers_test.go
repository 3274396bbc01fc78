package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HammerMeetNail/chatcore/internal/apperr"
	"github.com/HammerMeetNail/chatcore/internal/models"
)

var alice = &models.User{ID: "u1", Username: "alice"}

// newAuthedRequest builds a request carrying alice in its context.
func newAuthedRequest(method, target, body string) *http.Request {
	var reader *bytes.Buffer
	if body == "" {
		reader = &bytes.Buffer{}
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(SetUserInContext(req.Context(), alice))
}

func assertErrorResponse(t *testing.T, rr *httptest.ResponseRecorder, status int, code apperr.Code) ErrorResponse {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, rr.Code, rr.Body.String())
	}
	if ct := rr.Result().Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected content type application/json, got %q", ct)
	}

	var response ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Code != code {
		t.Fatalf("expected code %q, got %q", code, response.Code)
	}
	if response.Error == "" {
		t.Fatal("expected error message")
	}
	return response
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response %q: %v", rr.Body.String(), err)
	}
}
