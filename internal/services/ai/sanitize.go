package ai

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// contextKey is a private type so context values cannot collide with string
// keys from other packages.
type contextKey string

const (
	planIDContextKey    contextKey = "plan_id"
	requestIDContextKey contextKey = "request_id"
)

// RequestIDContextKey returns the context key for the request ID.
func RequestIDContextKey() contextKey {
	return requestIDContextKey
}

const (
	// MaxPreviewLength caps prompt/response previews in normal logs.
	MaxPreviewLength = 200
	// MaxDebugContentLength caps prompt/response content in debug logs.
	MaxDebugContentLength = 10000
	// RedactedValue replaces sensitive data in log output.
	RedactedValue = "[REDACTED]"
)

// SanitizeAPIKey renders an API key safe for logs: short keys are fully
// redacted, longer keys keep four characters on each edge for recognition.
func SanitizeAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return RedactedValue
	}
	return apiKey[:4] + RedactedValue + apiKey[len(apiKey)-4:]
}

// SanitizePrompt produces a log-safe preview of a prompt. Prompts embed
// intake text, so they are filtered even with fullLog set.
func SanitizePrompt(prompt string, fullLog bool) string {
	return previewForLog(prompt, fullLog)
}

// SanitizeResponse produces a log-safe preview of a provider response.
func SanitizeResponse(response string, fullLog bool) string {
	return previewForLog(response, fullLog)
}

func previewForLog(s string, fullLog bool) string {
	if s == "" {
		return ""
	}

	maxLen := MaxPreviewLength
	if fullLog {
		maxLen = MaxDebugContentLength
	}

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
	s = b.String()

	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}

// ExtractRequestID reads a request ID from the context, if set.
func ExtractRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// ExtractPlanID reads a plan ID from the context, accepting either a string
// or anything with a String method (uuid.UUID in practice).
func ExtractPlanID(ctx context.Context) string {
	switch v := ctx.Value(planIDContextKey).(type) {
	case string:
		return v
	case interface{ String() string }:
		return v.String()
	}
	return ""
}

// WithPlanID returns a context carrying a plan ID for debug log correlation.
func WithPlanID(ctx context.Context, planID interface{ String() string }) context.Context {
	return context.WithValue(ctx, planIDContextKey, planID)
}
