package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/castingdesk/internal/infrastructure/redis"
	"github.com/yourorg/castingdesk/internal/security/session"
	"github.com/yourorg/castingdesk/pkg/database"
)

// HealthHandler handles liveness and readiness endpoints. The in-memory
// store has no external dependency, so only optional backends (redis
// session store, audit database) contribute readiness checks.
type HealthHandler struct {
	sessions    *session.Manager
	redisClient *redis.Client
	auditDB     *database.ConnectionPool
	logger      *slog.Logger
}

func NewHealthHandler(sessions *session.Manager, redisClient *redis.Client, auditDB *database.ConnectionPool, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		sessions:    sessions,
		redisClient: redisClient,
		auditDB:     auditDB,
		logger:      logger,
	}
}

// ReadinessResponse reports per-dependency readiness
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /healthz, a bare liveness probe
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, okBody)
}

// Ready handles GET /readyz. Unconfigured backends count as ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx); err != nil {
			checks["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "not configured"
	}

	if h.auditDB != nil {
		if err := h.auditDB.Health(ctx); err != nil {
			checks["audit_db"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["audit_db"] = "ok"
		}
	} else {
		checks["audit_db"] = "not configured"
	}

	if h.sessions != nil {
		if _, err := h.sessions.Count(ctx); err != nil {
			checks["sessions"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["sessions"] = "ok"
		}
	}

	status := "ready"
	statusCode := http.StatusOK
	if !healthy {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, ReadinessResponse{Status: status, Checks: checks})

	h.logger.Info("readiness check", slog.String("status", status))
}
