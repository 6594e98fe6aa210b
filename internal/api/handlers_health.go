// handlers_health.go - Health check handlers
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/studyassist/backend/internal/upload"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version   string
	engine    string
	startedAt time.Time
	uploads   *upload.Manager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, engine string, uploads *upload.Manager) HealthHandler {
	return &HealthHandlerImpl{
		version:   version,
		engine:    engine,
		startedAt: time.Now(),
		uploads:   uploads,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	body := map[string]interface{}{
		"status":         "ok",
		"version":        h.version,
		"progressEngine": h.engine,
		"uptime":         time.Since(h.startedAt).Round(time.Second).String(),
	}
	if h.uploads != nil {
		body["activeUploads"] = h.uploads.Active()
	}
	return c.JSON(http.StatusOK, body)
}
