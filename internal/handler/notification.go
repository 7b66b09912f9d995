package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

// NoticeHandler serves the shared notice board.
type NoticeHandler struct {
	Service *service.SettingsService
}

func (h NoticeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/notices", h.list)
	r.Post("/notices", h.create)
}

func (h NoticeHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.Notices(r.Context(), intQuery(r, "limit"), intQuery(r, "offset"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notices": items})
}

func (h NoticeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.Notice
	if !decodeJSON(w, r, &req) {
		return
	}
	// the author is taken from the forwarded session token
	n, err := h.Service.PostNotice(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}
