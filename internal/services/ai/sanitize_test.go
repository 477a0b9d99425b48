package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSanitizeAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		apiKey string
		want   string
	}{
		{"empty", "", ""},
		{"short key fully redacted", "sk-12345", RedactedValue},
		{"long key shows edges", "sk-abcdefghijklmnop", "sk-a" + RedactedValue + "mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeAPIKey(tt.apiKey); got != tt.want {
				t.Errorf("SanitizeAPIKey(%q) = %q, want %q", tt.apiKey, got, tt.want)
			}
		})
	}
}

func TestSanitizePromptTruncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", MaxPreviewLength+50)
	got := SanitizePrompt(long, false)
	if len(got) != MaxPreviewLength+3 { // "..." suffix
		t.Errorf("preview length = %d, want %d", len(got), MaxPreviewLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated preview should end with ellipsis")
	}
}

func TestSanitizePromptRemovesControlChars(t *testing.T) {
	t.Parallel()

	got := SanitizePrompt("hello\x00world\nline", true)
	if strings.Contains(got, "\x00") {
		t.Errorf("control characters should be removed: %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("newlines should be preserved: %q", got)
	}
}

func TestExtractRequestID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := ExtractRequestID(ctx); got != "" {
		t.Errorf("ExtractRequestID(empty ctx) = %q, want empty", got)
	}

	ctx = context.WithValue(ctx, RequestIDContextKey(), "req-123")
	if got := ExtractRequestID(ctx); got != "req-123" {
		t.Errorf("ExtractRequestID = %q, want req-123", got)
	}
}

func TestWithPlanID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	ctx := WithPlanID(context.Background(), id)
	if got := ExtractPlanID(ctx); got != id.String() {
		t.Errorf("ExtractPlanID = %q, want %q", got, id.String())
	}

	if got := ExtractPlanID(context.Background()); got != "" {
		t.Errorf("ExtractPlanID(empty ctx) = %q, want empty", got)
	}
}

func TestExtractAPIErrorRateLimit(t *testing.T) {
	t.Parallel()

	err := apiErrorFromMessage(`429 {"message":"slow down","type":"rate_limit_error","code":"rate_limited"}`)
	apiErr := ExtractAPIError(err)
	if apiErr == nil {
		t.Fatal("expected APIError for 429 message")
	}
	if apiErr.StatusCode != 429 {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
	if apiErr.IsPermanent {
		t.Error("rate limit should not be permanent")
	}
	if !IsRateLimitError(err) {
		t.Error("IsRateLimitError should be true")
	}
}

func TestExtractAPIErrorQuota(t *testing.T) {
	t.Parallel()

	err := apiErrorFromMessage(`429 {"message":"out of credits","type":"insufficient_quota","code":"insufficient_quota"}`)
	apiErr := ExtractAPIError(err)
	if apiErr == nil {
		t.Fatal("expected APIError for quota message")
	}
	if !apiErr.IsPermanent {
		t.Error("quota exhaustion should be permanent")
	}
	if !IsQuotaError(err) {
		t.Error("IsQuotaError should be true")
	}
}

type stringError string

func (e stringError) Error() string { return string(e) }

func apiErrorFromMessage(msg string) error {
	return stringError(msg)
}
