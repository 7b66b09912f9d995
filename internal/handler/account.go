package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/server/authctx"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

type AccountHandler struct {
	Service *service.AccountService
}

func (h AccountHandler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.me)
	r.Post("/me/photo", h.updateAvatar)
	r.Get("/me/account-photos", h.photos)
	r.Post("/me/account-photos", h.addPhoto)
	r.Delete("/me/account-photos/{id}", h.deletePhoto)
}

func (h AccountHandler) me(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sess, err := h.Service.Sessions.Hydrate(r.Context(), user.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.User)
}

func (h AccountHandler) updateAvatar(w http.ResponseWriter, r *http.Request) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		PhotoData string `json:"photo_data"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := h.Service.UpdateAvatar(r.Context(), user.Session(), req.PhotoData)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.User)
}

func (h AccountHandler) photos(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Photos(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h AccountHandler) addPhoto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhotoData string `json:"photo_data"`
		Name      string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.AddPhoto(r.Context(), req.PhotoData, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h AccountHandler) deletePhoto(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.DeletePhoto(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
