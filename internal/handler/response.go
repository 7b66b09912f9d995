package handler

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/gasapi"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/service"
	"github.com/KANIKANIMAN1234/lapin-pc-app/internal/session"
)

type apiError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// apiResponse mirrors the envelope of the remote API so the frontend can
// treat both the same way.
type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
	Message string    `json:"message,omitempty"`
}

func writeRawJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	writeRawJSON(w, status, apiResponse{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeRawJSON(w, status, apiResponse{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeRawJSON(w, status, apiResponse{
		Error: &apiError{Code: codeFor(status), Message: message},
	})
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusBadGateway:
		return "UPSTREAM_ERROR"
	case http.StatusServiceUnavailable:
		return "NOT_CONFIGURED"
	}
	return "INTERNAL_ERROR"
}

// writeServiceError maps service, session and remote API errors to a status
// and a user-facing message.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		ve *service.ValidationError
		ae *gasapi.AppError
	)
	switch {
	case errors.As(err, &ve):
		writeRawJSON(w, http.StatusBadRequest, apiResponse{
			Error: &apiError{Code: "VALIDATION_ERROR", Message: ve.Message, Fields: ve.Fields},
		})
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "認証が必要です")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "アクセス権限がありません")
	case errors.Is(err, service.ErrNotFound), errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "見つかりません")
	case errors.Is(err, session.ErrStale):
		writeError(w, http.StatusConflict, "他の操作で更新されました。再度お試しください")
	case errors.Is(err, gasapi.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, gasapi.Message(err))
	case errors.As(err, &ae):
		writeError(w, appErrorStatus(ae.Code), gasapi.Message(err))
	default:
		var (
			te *gasapi.TransportError
			pe *gasapi.ProtocolError
		)
		if errors.As(err, &te) || errors.As(err, &pe) || errors.Is(err, gasapi.ErrNoData) {
			writeError(w, http.StatusBadGateway, gasapi.Message(err))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func appErrorStatus(code string) int {
	switch code {
	case "401", "UNAUTHORIZED", "AUTH_ERROR":
		return http.StatusUnauthorized
	case "403", "FORBIDDEN":
		return http.StatusForbidden
	case "404", "NOT_FOUND":
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

const maxBodyBytes = 20 << 20

// decodeJSON reads a request body. Photo uploads carry base64 images, so
// the limit is generous.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return false
	}
	return true
}
