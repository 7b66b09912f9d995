package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

type SettingsHandler struct {
	Service *service.SettingsService
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings/map", h.mapSettings)
	r.Put("/settings/map", h.saveMapSettings)
	r.Get("/masters", h.masters)
	r.Put("/masters", h.saveMasters)
	r.Post("/text/format", h.formatText)
}

func (h SettingsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/settings/company", h.company)
	r.Put("/settings/company", h.saveCompany)
	r.Get("/page-permissions", h.pagePermissions)
	r.Put("/page-permissions", h.savePagePermissions)
}

func (h SettingsHandler) company(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.Company(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h SettingsHandler) saveCompany(w http.ResponseWriter, r *http.Request) {
	var req gasapi.Settings
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Service.SaveCompany(r.Context(), req); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "会社設定を保存しました")
}

func (h SettingsHandler) mapSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.MapSettings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h SettingsHandler) saveMapSettings(w http.ResponseWriter, r *http.Request) {
	var req gasapi.Settings
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.Service.SaveMapSettings(r.Context(), req); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "地図設定を保存しました")
}

func (h SettingsHandler) masters(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.Masters(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h SettingsHandler) saveMasters(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MasterType string   `json:"master_type"`
		Values     []string `json:"values"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.SaveMasters(r.Context(), req.MasterType, req.Values)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h SettingsHandler) pagePermissions(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.PagePermissions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h SettingsHandler) savePagePermissions(w http.ResponseWriter, r *http.Request) {
	var req domain.PagePermissions
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.Service.SavePagePermissions(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if msg == "" {
		msg = "権限を保存しました"
	}
	writeMessage(w, http.StatusOK, msg)
}

func (h SettingsHandler) formatText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InputText  string `json:"input_text"`
		FormatType string `json:"format_type"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.Service.FormatText(r.Context(), req.InputText, req.FormatType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"formatted_text": out})
}
