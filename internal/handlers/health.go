package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/benvon/launch-coach/internal/database"
)

const healthCheckTimeout = 5 * time.Second

// Pinger is anything that can report reachability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker serves the /healthz endpoint.
type HealthChecker struct {
	db    *database.DB
	redis Pinger
}

// NewHealthChecker creates a health checker. redis may be nil when no rate
// limiter is configured.
func NewHealthChecker(db *database.DB, redis Pinger) *HealthChecker {
	return &HealthChecker{db: db, redis: redis}
}

// HealthResponse is the health endpoint payload. Checks is only present in
// extended mode.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck reports liveness. With ?mode=extended it also probes the
// database, returning 503 when the probe fails so load balancers can pull
// the instance.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if r.URL.Query().Get("mode") == "extended" {
		resp.Checks = map[string]string{"database": "healthy"}
		if err := h.probeDatabase(r.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Checks["database"] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
		}
		if h.redis != nil {
			resp.Checks["redis"] = "healthy"
			if err := h.probeRedis(r.Context()); err != nil {
				resp.Status = "unhealthy"
				resp.Checks["redis"] = "unhealthy: " + err.Error()
				status = http.StatusServiceUnavailable
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *HealthChecker) probeDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return h.db.HealthCheck(ctx)
}

func (h *HealthChecker) probeRedis(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return h.redis.Ping(ctx)
}
