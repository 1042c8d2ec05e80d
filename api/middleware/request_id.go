package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/quickplate/quickplate-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID echoes the caller-provided request id (or mints one) and tags the
// request-scoped logger with it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := requestIDFor(r)
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestIDFor(r *http.Request) string {
	if id := r.Header.Get(requestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}
