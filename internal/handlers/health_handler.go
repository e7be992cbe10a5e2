// file: internal/handlers/health_handler.go
package handlers

import (
	"net/http"

	"personahub/internal/services"
)

// HealthHandler reports service liveness and dependency health
type HealthHandler struct {
	*Base
	services *services.ServiceCollection
	version  string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(base *Base, collection *services.ServiceCollection, version string) *HealthHandler {
	return &HealthHandler{Base: base, services: collection, version: version}
}

// Live handles GET /health/live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.builder.WriteSuccess(w, r, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready handles GET /health/ready and checks downstream dependencies
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	health := h.services.HealthCheck(r.Context())

	status := http.StatusOK
	for _, state := range health {
		if s, ok := state.(string); ok && s != "healthy" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	h.builder.WriteJSON(w, r, h.builder.Success(r.Context(), health), status)
}
