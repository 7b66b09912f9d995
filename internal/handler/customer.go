package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/server/authctx"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

// CustomerHandler serves the customer map and the mailing send list.
type CustomerHandler struct {
	Map       *service.MapService
	Campaigns *service.CampaignService
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/map/customers", h.mapCustomers)
	r.Get("/campaigns/recipients", h.recipients)
}

func (h CustomerHandler) mapCustomers(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	mine, _ := strconv.ParseBool(r.URL.Query().Get("mine"))
	v, err := h.Map.Customers(r.Context(), service.MapQuery{
		MineOnly: mine,
		UserID:   user.ID,
		FocusID:  r.URL.Query().Get("focus"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h CustomerHandler) recipients(w http.ResponseWriter, r *http.Request) {
	v, err := h.Campaigns.Recipients(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
