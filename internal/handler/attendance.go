package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

type AttendanceHandler struct {
	Service *service.AttendanceService
}

func (h AttendanceHandler) RegisterRoutes(r chi.Router) {
	r.Post("/attendance", h.punch)
	r.Get("/attendance/status", h.status)
}

func (h AttendanceHandler) punch(w http.ResponseWriter, r *http.Request) {
	var req service.Punch
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.Service.Punch(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h AttendanceHandler) status(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Status(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
