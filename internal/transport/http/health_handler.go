package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler handles health and version requests
type HealthHandler struct {
	version string
	started time.Time
	boards  []string
}

// NewHealthHandler creates a health handler
func NewHealthHandler(version string, boards []string) *HealthHandler {
	return &HealthHandler{
		version: version,
		started: time.Now(),
		boards:  boards,
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":         "healthy",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"boards":         h.boards,
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"version": h.version})
}
