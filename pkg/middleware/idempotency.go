package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"
)

const DefaultIdempotencyHeader = "Idempotency-Key"

type IdempotencyStore interface {
	Get(key string) (*CachedResponse, bool)
	Set(key string, response *CachedResponse)
	Stop()
}

// CachedResponse is a stored 2xx response together with a fingerprint of
// the request body that produced it.
type CachedResponse struct {
	StatusCode  int
	Headers     http.Header
	Body        []byte
	Fingerprint string
	CreatedAt   time.Time
}

type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]*CachedResponse
	ttl     time.Duration
	stop    chan struct{}
	once    sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries: make(map[string]*CachedResponse),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	go s.evictLoop(time.Hour)
	return s
}

func (s *InMemoryIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.expired(resp, time.Now()) {
		delete(s.entries, key)
		return nil, false
	}
	return resp, true
}

func (s *InMemoryIdempotencyStore) Set(key string, response *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response.CreatedAt = time.Now()
	s.entries[key] = response
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.once.Do(func() { close(s.stop) })
}

func (s *InMemoryIdempotencyStore) expired(resp *CachedResponse, now time.Time) bool {
	return now.Sub(resp.CreatedAt) > s.ttl
}

func (s *InMemoryIdempotencyStore) evictLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.mu.Lock()
			for key, resp := range s.entries {
				if s.expired(resp, now) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// Idempotency replays the stored response for a repeated POST or PATCH that
// carries the same key on the same route. Reusing a key with a different
// body is rejected with 422.
func Idempotency(store IdempotencyStore, headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = DefaultIdempotencyHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := idempotencyKey(r, headerName)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			fingerprint := fingerprintOf(body)

			if cached, ok := store.Get(key); ok {
				if cached.Fingerprint != fingerprint {
					writeJSONError(w, http.StatusUnprocessableEntity, "Idempotency key reused with a different request body")
					return
				}
				replay(w, cached)
				return
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status >= 300 {
				return
			}
			headers := w.Header().Clone()
			headers.Del(RequestIDHeader)
			store.Set(key, &CachedResponse{
				StatusCode:  rec.status,
				Headers:     headers,
				Body:        rec.body.Bytes(),
				Fingerprint: fingerprint,
			})
		})
	}
}

// Keys are scoped to method and path.
func idempotencyKey(r *http.Request, headerName string) string {
	if r.Method != http.MethodPost && r.Method != http.MethodPatch {
		return ""
	}
	if key := r.Header.Get(headerName); key != "" {
		return r.Method + " " + r.URL.Path + " " + key
	}
	return ""
}

func fingerprintOf(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func replay(w http.ResponseWriter, cached *CachedResponse) {
	for name, values := range cached.Headers {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}

type recordingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(status int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}
