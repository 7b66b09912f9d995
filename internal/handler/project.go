package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/domain"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

type ProjectHandler struct {
	Service *service.ProjectService
}

func (h ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.detail)
			r.Put("/", h.update)
			r.Delete("/", h.delete)
			r.Put("/status", h.changeStatus)
			r.Get("/photos", h.photos)
			r.Post("/photos", h.uploadPhoto)
			r.Post("/customer-photo", h.customerPhoto)
			r.Get("/meetings", h.meetings)
			r.Post("/meetings", h.addMeeting)
			r.Get("/cost-items", h.costs)
			r.Post("/cost-items", h.addCost)
		})
	})
}

// multiQuery accepts both repeated keys and comma separated values.
func multiQuery(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func intQuery(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func (h ProjectHandler) list(w http.ResponseWriter, r *http.Request) {
	f := service.ProjectFilter{
		Query:     r.URL.Query().Get("q"),
		Year:      intQuery(r, "year"),
		Month:     intQuery(r, "month"),
		WorkTypes: multiQuery(r, "work_type"),
		Page:      intQuery(r, "page"),
	}
	for _, s := range multiQuery(r, "status") {
		f.Statuses = append(f.Statuses, domain.ProjectStatus(s))
	}
	page, err := h.Service.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h ProjectHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.NewProject
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h ProjectHandler) detail(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h ProjectHandler) update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if !decodeJSON(w, r, &fields) {
		return
	}
	p, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h ProjectHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "案件を削除しました")
}

func (h ProjectHandler) changeStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.ProjectStatus `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.Service.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h ProjectHandler) photos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.Service.Photos(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"photos": photos})
}

func (h ProjectHandler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	var req service.PhotoUpload
	if !decodeJSON(w, r, &req) {
		return
	}
	photo, err := h.Service.UploadPhoto(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

func (h ProjectHandler) customerPhoto(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhotoURL  string `json:"photo_url"`
		PhotoData string `json:"photo_data"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.SaveCustomerPhoto(r.Context(), chi.URLParam(r, "id"), req.PhotoURL, req.PhotoData)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h ProjectHandler) meetings(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Meetings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h ProjectHandler) addMeeting(w http.ResponseWriter, r *http.Request) {
	var req domain.MeetingRecord
	if !decodeJSON(w, r, &req) {
		return
	}
	ref, err := h.Service.AddMeeting(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

func (h ProjectHandler) costs(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Service.Costs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h ProjectHandler) addCost(w http.ResponseWriter, r *http.Request) {
	var req domain.CostItem
	if !decodeJSON(w, r, &req) {
		return
	}
	ref, err := h.Service.AddCost(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}
