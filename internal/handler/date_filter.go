package handler

import (
	"net/http"
	"time"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/report"
)

func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(report.DateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(report.DateLayout)
}
