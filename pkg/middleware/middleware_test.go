package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"staybook/pkg/logger"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, nil, testLogger())
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request within the window should be rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other clients have their own budget")
	}
	if !rl.Allow("") {
		t.Error("requests without a key are not limited")
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, nil, testLogger())
	defer rl.Stop()
	h := RateLimit(rl)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil)
	req.RemoteAddr = "192.0.2.10:5555"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("expected Retry-After 60, got %q", w.Header().Get("Retry-After"))
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		remote    string
		want      string
	}{
		{name: "peer address", remote: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "forwarded chain", forwarded: "203.0.113.5, 10.0.0.1", remote: "10.0.0.1:80", want: "203.0.113.5"},
		{name: "unparseable peer", remote: "pipe", want: "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(testLogger())(okHandler)

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		want        int
	}{
		{name: "json body", method: http.MethodPost, body: `{}`, contentType: "application/json; charset=utf-8", want: http.StatusOK},
		{name: "form body", method: http.MethodPost, body: `a=b`, contentType: "application/x-www-form-urlencoded", want: http.StatusUnsupportedMediaType},
		{name: "bodiless sync trigger", method: http.MethodPost, want: http.StatusOK},
		{name: "get request", method: http.MethodGet, want: http.StatusOK},
		{name: "patch without header", method: http.MethodPatch, body: `{}`, want: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, "/api/v1/bookings", body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	h := MaxRequestSize(8, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`)))
	if w.Code != http.StatusOK {
		t.Errorf("small body: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"too long"}`)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("large body: expected 413, got %d", w.Code)
	}
}

func TestRequestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	skip := func(r *http.Request) bool { return strings.HasSuffix(r.URL.Path, "/sync") }
	h := RequestTimeout(20*time.Millisecond, skip)(slow)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 on timeout, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/external-calendars/id/abc/sync", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected skipped route to finish, got %d", w.Code)
	}
}

func TestIdempotency(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	h := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
	}))

	send := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	first := send("/api/v1/bookings")
	second := send("/api/v1/bookings")
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("unexpected codes %d and %d", first.Code, second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("replayed body differs: %q vs %q", second.Body.String(), first.Body.String())
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected handler to run once, ran %d times", calls)
	}

	send("/api/v1/blocked-dates")
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("same key on another route must not replay, calls=%d", calls)
	}
}

func TestIdempotency_KeyReuseWithDifferentBody(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int32
	h := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
	}))

	for i, body := range []string{`{"guest_count":2}`, `{"guest_count":3}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
		req.Header.Set(DefaultIdempotencyHeader, "key-2")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		want := http.StatusCreated
		if i == 1 {
			want = http.StatusUnprocessableEntity
		}
		if w.Code != want {
			t.Errorf("request %d: expected %d, got %d", i, want, w.Code)
		}
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected handler to run once, ran %d times", calls)
	}
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if seen != "abc-123" {
		t.Errorf("expected incoming request id to be kept, got %q", seen)
	}
	if w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("expected request id echoed in response header")
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
