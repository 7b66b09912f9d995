package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

type EmployeeHandler struct {
	Service *service.EmployeeService
}

func (h EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.list)
	r.Post("/employees", h.create)
	r.Get("/employees/assignable", h.assignable)
	r.Put("/employees/{id}", h.update)
	r.Post("/employees/{id}/retire", h.retire)
	r.Post("/employees/{id}/reinstate", h.reinstate)
}

// RegisterAdminRoutes mounts routes that change what other users may see.
func (h EmployeeHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/permissions", h.savePermissions)
}

func (h EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.List(r.Context(), service.ParseEmployeeFilter(r.URL.Query().Get("filter")))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h EmployeeHandler) assignable(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.Assignable(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"employees": employees})
}

func (h EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeInput
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.Service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h EmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeInput
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h EmployeeHandler) retire(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RetiredDate   string `json:"retired_date"`
		RetiredReason string `json:"retired_reason"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.Service.Retire(r.Context(), chi.URLParam(r, "id"), req.RetiredDate, req.RetiredReason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h EmployeeHandler) reinstate(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.Reinstate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h EmployeeHandler) savePermissions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Permissions []domain.UserPagePermissions `json:"permissions"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Service.SavePermissions(r.Context(), req.Permissions); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "権限を保存しました")
}
