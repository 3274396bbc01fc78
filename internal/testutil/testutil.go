// Package testutil provides helpers shared by package and end-to-end tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/HammerMeetNail/chatcore/internal/store"
)

// NewFileStore returns a record store backed by a fresh temp directory.
func NewFileStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	backend, err := store.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("creating file backend: %v", err)
	}
	return store.New(backend, opts...)
}

// RandomUsername generates a valid, unique username for testing.
func RandomUsername() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NewAPIClient serves handler on a test server for the duration of the test
// and returns a resty client pointed at it.
func NewAPIClient(t *testing.T, handler http.Handler) *resty.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return resty.New().
		SetBaseURL(server.URL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

// APIError is the JSON error body returned by the API.
type APIError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// AssertAPIError fails the test unless resp carries the given status and code.
func AssertAPIError(t *testing.T, resp *resty.Response, status int, code string) {
	t.Helper()
	if resp.StatusCode() != status {
		t.Fatalf("%s %s: expected status %d, got %d. Body: %s",
			resp.Request.Method, resp.Request.URL, status, resp.StatusCode(), resp.String())
	}
	var body APIError
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		t.Fatalf("failed to parse error body %q: %v", resp.String(), err)
	}
	if body.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, body.Code, body.Error)
	}
}

// AssertStatus fails the test unless resp has the expected status.
func AssertStatus(t *testing.T, resp *resty.Response, expected int) {
	t.Helper()
	if resp.StatusCode() != expected {
		t.Fatalf("%s %s: expected status %d, got %d. Body: %s",
			resp.Request.Method, resp.Request.URL, expected, resp.StatusCode(), resp.String())
	}
}

// AssertStatusCode checks if the recorded response has the expected status code.
func AssertStatusCode(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}
