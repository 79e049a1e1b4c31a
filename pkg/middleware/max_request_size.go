package middleware

import (
	"net/http"
	"staybook/pkg/logger"
)

func MaxRequestSize(limit int64, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				log.Warn("Request body too large",
					"request_id", RequestIDFrom(r.Context()),
					"content_length", r.ContentLength,
					"limit", limit,
					"path", r.URL.Path,
				)
				writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
