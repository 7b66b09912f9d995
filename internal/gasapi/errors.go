package gasapi

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by every call when no endpoint URL is set.
// No network request is attempted in that case.
var ErrNotConfigured = errors.New("gas endpoint is not configured")

// ErrNoData is returned when a successful envelope carries no payload where
// one is required.
var ErrNoData = errors.New("gas response carried no data")

// TransportError covers network failures and non-2xx responses.
type TransportError struct {
	Action string
	Status int // 0 when the request never produced a response
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gas %s: unexpected status %d", e.Action, e.Status)
	}
	return fmt.Sprintf("gas %s: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the server answered but the body was not a usable
// JSON envelope.
type ProtocolError struct {
	Action  string
	Snippet string
	Err     error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("gas %s: response is not valid JSON", e.Action)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// AppError is an envelope with success=false.
type AppError struct {
	Action  string
	Code    string
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gas %s: request failed", e.Action)
	}
	return e.Message
}

// Message returns the string shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}

// Retryable reports whether repeating the call could succeed. Configuration
// problems and answers the remote API gave on purpose do not change on a
// second try.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, ErrNotConfigured) {
		return false
	}
	var appErr *AppError
	return !errors.As(err, &appErr)
}
