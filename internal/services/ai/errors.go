package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError carries classified detail about a provider API failure. The
// distinction that matters to callers is rate limit (transient, the next
// cycle may succeed) versus quota exhaustion (permanent until billing
// changes); both arrive as HTTP 429 from OpenAI.
type APIError struct {
	Message     string
	Type        string
	Code        string
	StatusCode  int
	IsPermanent bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
}

// IsRateLimitError reports whether err is a transient rate-limit failure.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 && !apiErr.IsPermanent
	}
	s := err.Error()
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests")
}

// IsQuotaError reports whether err means the API quota is exhausted.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsPermanent || apiErr.Code == "insufficient_quota"
	}
	s := err.Error()
	return strings.Contains(s, "insufficient_quota") ||
		strings.Contains(s, "quota") ||
		strings.Contains(s, "billing")
}

// ExtractAPIError classifies a 429 from the SDK. The SDK flattens the API
// error body into the message string, so the JSON payload is recovered from
// there when present. Non-429 errors return nil.
func ExtractAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	msg := err.Error()
	if !strings.Contains(msg, "429") {
		return nil
	}

	apiErr := &APIError{
		StatusCode: 429,
		Message:    msg,
		Type:       "rate_limit_error",
	}

	if detail, ok := parseErrorPayload(msg); ok {
		apiErr.Message = detail.Message
		apiErr.Type = detail.Type
		apiErr.Code = detail.Code
		apiErr.IsPermanent = detail.Code == "insufficient_quota"
	}

	return apiErr
}

type errorPayload struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// parseErrorPayload pulls the first {...} block out of an SDK error string
// and decodes it.
func parseErrorPayload(msg string) (errorPayload, bool) {
	var detail errorPayload

	start := strings.Index(msg, "{")
	if start == -1 {
		return detail, false
	}
	end := strings.LastIndex(msg[start:], "}")
	if end == -1 {
		return detail, false
	}

	if err := json.Unmarshal([]byte(msg[start:start+end+1]), &detail); err != nil {
		return detail, false
	}
	return detail, true
}
