package handlers

import (
	"net/http"
	"time"

	common "github.com/bobmcallan/weather-mcp/internal/common"
	"github.com/bobmcallan/weather-mcp/internal/config"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger  *common.Logger
	service string
	now     func() time.Time
}

// NewHealthHandler creates a new health handler for the named service.
func NewHealthHandler(logger *common.Logger, service string) *HealthHandler {
	return &HealthHandler{logger: logger, service: service, now: time.Now}
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   h.service,
		"version":   config.GetVersion(),
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
