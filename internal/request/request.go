// Package request holds small helpers for reading client details from an
// incoming HTTP request.
package request

import (
	"net/http"
	"strings"
)

// ClientIP returns the originating client address. Proxy headers win over
// RemoteAddr: the first X-Forwarded-For entry is the original client, then
// X-Real-IP, then the socket peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}
