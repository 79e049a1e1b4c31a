package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// deadlineWriter drops writes from a handler that outlived its deadline.
type deadlineWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	expired bool
	started bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired || dw.started {
		return
	}
	dw.started = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.expired {
		return 0, http.ErrHandlerTimeout
	}
	dw.started = true
	return dw.ResponseWriter.Write(b)
}

// expire marks the writer dead and reports whether the handler had already
// started its response.
func (dw *deadlineWriter) expire() (started bool) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.expired = true
	started = dw.started
	dw.started = true
	return started
}

// RequestTimeout bounds request handling. Requests matched by skip run
// without the deadline; sync triggers wait on remote feeds.
func RequestTimeout(timeout time.Duration, skip func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip != nil && skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if !dw.expire() {
					writeJSONError(w, http.StatusServiceUnavailable, "Request timeout")
				}
			}
		})
	}
}
