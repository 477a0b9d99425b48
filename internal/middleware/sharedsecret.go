package middleware

import (
	"crypto/subtle"
	"net/http"
)

// BatchSecretHeader carries the shared secret for the batch trigger endpoint.
const BatchSecretHeader = "X-Batch-Secret"

// SharedSecret guards a route with a static shared secret. An empty
// configured secret rejects every request rather than allowing all.
func SharedSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(BatchSecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
