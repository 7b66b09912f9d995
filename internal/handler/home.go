package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/session"
)

// HomeHandler tells the frontend which login options are available.
type HomeHandler struct {
	LiffID        string
	LineLogin     bool
	GasConfigured bool
}

func (h HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.welcome)
}

func (h HomeHandler) welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":           "ラパンリフォーム 業務管理",
		"liff_id":        h.LiffID,
		"line_login":     h.LineLogin,
		"gas_configured": h.GasConfigured,
		"demo_roles":     session.DemoRoles,
	})
}
