package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/ports"
)

// HealthHandler exposes a readiness probe.
type HealthHandler struct {
	// Store is nil when sessions live in memory.
	Store         ports.HealthChecker
	GasConfigured bool
}

func (h HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

func (h HealthHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	store := "memory"
	if h.Store != nil {
		store = "ok"
		if err := h.Store.Health(ctx); err != nil {
			status = "degraded"
			store = "unreachable"
		}
	}
	if !h.GasConfigured {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         status,
		"session_store":  store,
		"gas_configured": h.GasConfigured,
	})
}
