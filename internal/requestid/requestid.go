// Package requestid provides request identification middleware for the blog API.
package requestid

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Context keys for request data
type contextKey string

const (
	contextKeyRequestID contextKey = "requestID"
)

// Header is the HTTP header carrying the request ID.
const Header = "X-Request-Id"

// FromContext extracts the request ID from a request context.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// Middleware returns an HTTP middleware that assigns each request an ID and
// writes an access log line. An incoming X-Request-Id header is honored so
// callers can correlate across services.
func Middleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" {
				id = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
			w.Header().Set(Header, id)

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))

			logger.WithFields(logrus.Fields{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
				"duration":   time.Since(start),
			}).Info("request handled")
		})
	}
}
