package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"staybook/pkg/logger"
	"testing"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	return m.err
}

func TestHandler_Ready(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})

	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantState  string
	}{
		{name: "database reachable", db: &mockPinger{}, wantStatus: http.StatusOK, wantState: "ready"},
		{name: "database down", db: &mockPinger{err: errors.New("no reachable servers")}, wantStatus: http.StatusServiceUnavailable, wantState: "unavailable"},
		{name: "no database", db: nil, wantStatus: http.StatusServiceUnavailable, wantState: "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHandler(tt.db, log).RegisterRoutes(router)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var resp Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("expected status %q, got %q", tt.wantState, resp.Status)
			}
		})
	}
}

func TestHandler_Health(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	router := httprouter.New()
	NewHandler(nil, log).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
