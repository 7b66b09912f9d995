package gasapi

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Envelope is the response wrapper used by every remote action.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// HasData reports whether the envelope carried a non-null payload.
func (e Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// ErrorDetail normalizes both error shapes the backend produces:
// a bare string, or an object with message and an optional code.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (d *ErrorDetail) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &d.Message)
	case '{':
		var obj struct {
			Code    any    `json:"code"`
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		d.Message = obj.Message
		if d.Message == "" {
			d.Message = obj.Error
		}
		if obj.Code != nil {
			d.Code = fmt.Sprint(obj.Code)
		}
		return nil
	default:
		d.Message = string(b)
		return nil
	}
}

// toError converts a failed envelope into an *AppError.
func (e Envelope) toError(action string) error {
	appErr := &AppError{Action: action}
	if e.Error != nil {
		appErr.Code = e.Error.Code
		appErr.Message = e.Error.Message
	}
	if appErr.Message == "" {
		appErr.Message = e.Message
	}
	return appErr
}
