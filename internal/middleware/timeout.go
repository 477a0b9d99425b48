package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout applies when no timeout is configured.
const DefaultRequestTimeout = 30 * time.Second

// Timeout bounds handler execution. The deadline is installed on the request
// context so downstream calls (database, LLM) observe cancellation, and
// http.TimeoutHandler writes the 503 if the handler overruns anyway.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			http.TimeoutHandler(next, timeout, "Request Timeout").
				ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
