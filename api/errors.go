package api

import (
	"errors"
	"fmt"
)

// Error codes reported by the client.
const (
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeConnectionFailed = "CONNECTION_FAILED"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeServer           = "SERVER_ERROR"
	ErrCodeInvalidResponse  = "INVALID_RESPONSE"
)

// Error is returned by every Client call that fails.
type Error struct {
	Code       string
	Message    string
	Endpoint   string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Endpoint != "" {
		msg = e.Endpoint + ": " + msg
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the wrapped error, enabling errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code, endpoint, message string, err error) *Error {
	return &Error{Code: code, Endpoint: endpoint, Message: message, Err: err}
}

// IsConnectionError reports whether err means the backend could not be reached.
func IsConnectionError(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == ErrCodeConnectionFailed || apiErr.Code == ErrCodeTimeout
}

// StatusCode extracts the HTTP status from err, or 0 when there is none.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
