package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["success"] != true {
		t.Error("success flag not set")
	}
	if _, ok := body["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["id"] != "abc" {
		t.Errorf("data = %v", body["data"])
	}
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	respondJSONError(rec, http.StatusBadRequest, "Bad Request", "Invalid plan ID")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["success"] != false {
		t.Error("success flag should be false")
	}
	if body["error"] != "Bad Request" {
		t.Errorf("error = %v", body["error"])
	}
	if body["message"] != "Invalid plan ID" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestSanitizeErrorMessageTruncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 300)
	got := sanitizeErrorMessage(long)
	if len(got) != 203 {
		t.Errorf("len = %d, want 203", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated message should end with ellipsis")
	}
}
