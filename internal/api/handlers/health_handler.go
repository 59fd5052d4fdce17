package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/monitoring"
	"github.com/rs/zerolog/log"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness of the server and its database.
type HealthHandler struct {
	db    Pinger
	stats *monitoring.StatsCollector
}

// NewHealthHandler creates a new HealthHandler. stats may be nil.
func NewHealthHandler(db Pinger, stats *monitoring.StatsCollector) *HealthHandler {
	return &HealthHandler{db: db, stats: stats}
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status   string                   `json:"status"`
	Database string                   `json:"database"`
	Process  *monitoring.ProcessStats `json:"process,omitempty"`
}

// Get handles the health check.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{Status: "ok", Database: "ok"}
	code := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check: database unreachable")
		status.Status = "degraded"
		status.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}
	if h.stats != nil {
		stats := h.stats.Collect(ctx)
		status.Process = &stats
	}
	common.RespondWithData(w, code, status, "")
}
