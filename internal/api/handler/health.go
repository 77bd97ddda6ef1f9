package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/kickoff/internal/api/response"
)

// Pinger is anything whose reachability the health check reports
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the backing store is reachable
type HealthHandler struct {
	store  Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Get handles GET /api/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("health check failed", slog.String("error", err.Error()))
		response.JSON(w, http.StatusServiceUnavailable, response.HealthResponse{Status: "unavailable"})
		return
	}

	response.OK(w, response.HealthResponse{Status: "ok"})
}
