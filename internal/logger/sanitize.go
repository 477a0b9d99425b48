package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength caps URL paths in log fields.
	MaxPathLength = 500
	// MaxErrorMessageLength caps error strings in log fields.
	MaxErrorMessageLength = 1000
)

// SanitizePath makes a request path safe for structured logs: invalid UTF-8
// is dropped, control characters are stripped, and the result is truncated.
// Paths carry user-supplied segments, so they are treated as untrusted.
func SanitizePath(path string) string {
	if path == "" {
		return ""
	}
	return truncate(filterRunes(path), MaxPathLength)
}

// SanitizeError returns a log-safe rendering of err. SMTP and driver errors
// can embed remote-controlled text, so the same filtering applies.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return truncate(filterRunes(err.Error()), MaxErrorMessageLength)
}

// filterRunes drops invalid UTF-8 and control characters, keeping printable
// runes plus space, tab, newline, and carriage return.
func filterRunes(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
