package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Mock health checker for testing
type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Health(ctx context.Context) error {
	return m.err
}

func TestHealthHandler_Health_AllHealthy(t *testing.T) {
	handler := NewHealthHandler(map[string]HealthChecker{
		"store": &mockHealthChecker{},
		"redis": &mockHealthChecker{},
	})

	rr := httptest.NewRecorder()
	handler.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", response.Status)
	}
	if response.Checks["store"] != "healthy" || response.Checks["redis"] != "healthy" {
		t.Errorf("unexpected checks %v", response.Checks)
	}
}

func TestHealthHandler_Health_StoreUnhealthy(t *testing.T) {
	handler := NewHealthHandler(map[string]HealthChecker{
		"store": &mockHealthChecker{err: errors.New("connection refused")},
	})

	rr := httptest.NewRecorder()
	handler.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rr.Code)
	}

	var response HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Status != "unhealthy" {
		t.Errorf("expected status 'unhealthy', got %q", response.Status)
	}
	if response.Checks["store"] != "unhealthy: connection refused" {
		t.Errorf("unexpected store check %q", response.Checks["store"])
	}
}

func TestHealthHandler_Ready(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler(map[string]HealthChecker{"store": &mockHealthChecker{}}).Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ready" {
		t.Errorf("expected ready, got %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	NewHealthHandler(map[string]HealthChecker{"store": &mockHealthChecker{err: errors.New("down")}}).Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rr.Code != http.StatusServiceUnavailable || rr.Body.String() != "not ready" {
		t.Errorf("expected not ready, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestHealthHandler_Live(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler(nil).Live(rr, httptest.NewRequest(http.MethodGet, "/live", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "alive" {
		t.Errorf("expected alive, got %d %q", rr.Code, rr.Body.String())
	}
}
