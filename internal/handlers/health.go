package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hamroaawaz/complaint-server/internal/models"
	"github.com/hamroaawaz/complaint-server/internal/storage"
)

const version = "1.0.0"

var startTime = time.Now()

// HealthHandler provides health check endpoints
type HealthHandler struct {
	store  *storage.Store
	rdb    *redis.Client // nil when Redis is not configured
	logger *zap.SugaredLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store *storage.Store, rdb *redis.Client, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{store: store, rdb: rdb, logger: logger}
}

// Check handles GET /health (liveness probe)
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:  "ok",
		Version: version,
		Uptime:  time.Since(startTime).String(),
	})
}

// Ready handles GET /health/ready (readiness probe). Checks that the data
// directory exists and, when configured, that Redis answers a ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:  "ready",
		Version: version,
		Uptime:  time.Since(startTime).String(),
		Storage: "ok",
	}
	httpStatus := http.StatusOK

	if info, err := os.Stat(h.store.Dir()); err != nil || !info.IsDir() {
		status.Status = "not ready"
		status.Storage = "unavailable"
		httpStatus = http.StatusServiceUnavailable
	}

	if h.rdb != nil {
		status.Redis = "connected"
		if err := h.rdb.Ping(r.Context()).Err(); err != nil {
			status.Status = "not ready"
			status.Redis = "disconnected"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	respondJSON(w, httpStatus, status)
}
