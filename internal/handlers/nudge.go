package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/benvon/launch-coach/internal/scheduler"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// BatchRunner runs one nudge batch pass over all active plans.
type BatchRunner interface {
	RunBatch(ctx context.Context, now time.Time) (*scheduler.BatchResult, error)
}

// NudgeHandler exposes the batch trigger endpoint for the external cron.
// The route must be protected by the shared-secret middleware; the handler
// itself performs no authentication.
type NudgeHandler struct {
	runner BatchRunner
	logger *zap.Logger
}

// NewNudgeHandler creates a new nudge handler
func NewNudgeHandler(runner BatchRunner, logger *zap.Logger) *NudgeHandler {
	return &NudgeHandler{runner: runner, logger: logger}
}

// RegisterRoutes registers the batch trigger route on the given router
// The router should already have the /jobs prefix
func (h *NudgeHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/nudge-batch", h.RunBatch).Methods("POST")
}

// RunBatch triggers one batch run. Repeated calls are safe: the per-plan
// interval throttle prevents double sends regardless of call frequency.
func (h *NudgeHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.RunBatch(r.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("nudge_batch_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Batch run failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
