package handler

import (
	"net/http"

	"github.com/mcoot/leaderboard-go/internal/api/response"
	"github.com/mcoot/leaderboard-go/internal/services/registry"
)

// HealthHandler reports liveness and the roster size
type HealthHandler struct {
	registry *registry.Service
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(registry *registry.Service) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.registry.Count(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok", Players: count})
}
