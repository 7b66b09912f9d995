package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/report"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/server/authctx"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

type DashboardHandler struct {
	Service *service.DashboardService
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.overview)
}

func (h DashboardHandler) overview(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	period := report.ParsePeriod(r.URL.Query().Get("period"))
	view, err := h.Service.Overview(r.Context(), period, user.Name)
	if err != nil {
		if errors.Is(err, gasapi.ErrNotConfigured) {
			writeServiceError(w, err)
			return
		}
		writeRawJSON(w, http.StatusBadGateway, apiResponse{
			Error: &apiError{Code: "DASHBOARD_UNAVAILABLE", Message: service.DashboardFailedMessage},
		})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// BonusHandler serves the admin-only profit-sharing overview.
type BonusHandler struct {
	Service *service.BonusService
}

func (h BonusHandler) RegisterRoutes(r chi.Router) {
	r.Get("/bonus", h.overview)
}

func (h BonusHandler) overview(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Overview(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
