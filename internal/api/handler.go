// Package api provides HTTP handlers for the challenge validator API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/autoagenix/aihem-labs/internal/catalog"
	"github.com/autoagenix/aihem-labs/internal/config"
	"github.com/autoagenix/aihem-labs/internal/engine"
	"github.com/autoagenix/aihem-labs/internal/ledger"
	"github.com/autoagenix/aihem-labs/internal/scoreboard"
)

// Handler provides common handler dependencies.
type Handler struct {
	catalog   *catalog.Catalog
	evaluator *engine.Evaluator
	ledger    ledger.Ledger
	feed      *scoreboard.Feed
	cfg       *config.Config
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(cat *catalog.Catalog, evaluator *engine.Evaluator, led ledger.Ledger, feed *scoreboard.Feed, cfg *config.Config) *Handler {
	return &Handler{
		catalog:   cat,
		evaluator: evaluator,
		ledger:    led,
		feed:      feed,
		cfg:       cfg,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
