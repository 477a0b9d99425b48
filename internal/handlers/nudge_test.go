package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benvon/launch-coach/internal/scheduler"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type stubRunner struct {
	result *scheduler.BatchResult
	err    error
	calls  int
}

func (s *stubRunner) RunBatch(_ context.Context, _ time.Time) (*scheduler.BatchResult, error) {
	s.calls++
	return s.result, s.err
}

func nudgeRouter(h *NudgeHandler) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/v1/jobs").Subrouter())
	return r
}

func TestRunBatchEndpoint(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{result: &scheduler.BatchResult{
		Processed: 3,
		Sent:      2,
		Skipped:   1,
	}}
	h := NewNudgeHandler(runner, zap.NewNop())
	router := nudgeRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/nudge-batch", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if runner.calls != 1 {
		t.Errorf("runner calls = %d, want 1", runner.calls)
	}

	var envelope struct {
		Data scheduler.BatchResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Sent != 2 {
		t.Errorf("sent = %d, want 2", envelope.Data.Sent)
	}
}

func TestRunBatchEndpointFailure(t *testing.T) {
	t.Parallel()

	runner := &stubRunner{err: errors.New("database unavailable")}
	h := NewNudgeHandler(runner, zap.NewNop())
	router := nudgeRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/nudge-batch", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRunBatchEndpointMethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := NewNudgeHandler(&stubRunner{result: &scheduler.BatchResult{}}, zap.NewNop())
	router := nudgeRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nudge-batch", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
