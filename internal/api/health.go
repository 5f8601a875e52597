package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/autoagenix/aihem-labs/internal/catalog"
	"github.com/autoagenix/aihem-labs/internal/ledger"
	"github.com/go-chi/chi/v5"
)

const healthCheckTimeout = 5 * time.Second

// HealthHandler reports service and score store health.
type HealthHandler struct {
	catalog *catalog.Catalog
	ledger  ledger.Ledger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cat *catalog.Catalog, led ledger.Ledger) *HealthHandler {
	return &HealthHandler{catalog: cat, ledger: led}
}

// Health returns the health status of the API and its dependencies. The
// service stays up when the score store is down, so a store failure reports
// degraded rather than unhealthy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	status := map[string]interface{}{
		"status":            "healthy",
		"challenges_loaded": h.catalog.Len(),
		"checks":            map[string]string{"api": "ok"},
	}
	statusCode := http.StatusOK

	if err := h.ledger.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		status["checks"].(map[string]string)["score_store"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		status["checks"].(map[string]string)["score_store"] = "ok"
	}

	JSON(w, statusCode, status)
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}
