package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
)

type ExpenseHandler struct {
	Service *service.ExpenseService
}

func (h ExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/expenses", h.page)
	r.Post("/expenses", h.create)
	r.Post("/expenses/ocr", h.ocr)
	r.Put("/expenses/{id}/accounting", h.accounting)
	r.Get("/expenses/export", h.export)
}

func (h ExpenseHandler) page(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Page(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h ExpenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req service.NewExpense
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

// ocr always answers 200; an unreadable receipt yields an empty prefill.
func (h ExpenseHandler) ocr(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhotoData string `json:"photo_data"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.Service.ReadReceipt(r.Context(), req.PhotoData))
}

func (h ExpenseHandler) accounting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountingImported bool `json:"accounting_imported"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Service.SetAccounting(r.Context(), chi.URLParam(r, "id"), req.AccountingImported)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h ExpenseHandler) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	startDate, err := parseDateQuery(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from")
		return
	}
	endDate, err := parseDateQuery(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to")
		return
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "from must be before to")
		return
	}

	items, err := h.Service.Export(r.Context(), formatDay(startDate), formatDay(endDate), 0)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filenameSuffix := time.Now().Format("20060102_150405")
	if startDate != nil && endDate != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", startDate.Format("20060102"), endDate.Format("20060102"))
	}

	switch format {
	case "csv":
		data, err := service.ExportExpensesCSV(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.csv\"", filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := service.ExportExpensesXLSX(items)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.xlsx\"", filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}
