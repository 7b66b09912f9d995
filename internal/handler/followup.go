package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

type FollowupHandler struct {
	Service *service.FollowupService
}

func (h FollowupHandler) RegisterRoutes(r chi.Router) {
	r.Get("/followups", h.followups)
	r.Get("/inspections", h.inspections)
}

func (h FollowupHandler) followups(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.Followups(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h FollowupHandler) inspections(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.Inspections(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
