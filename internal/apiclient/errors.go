package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/salonhub/salon-admin/internal/errors"
)

// APIError is returned for every backend response with a 4xx or 5xx status.
type APIError struct {
	Status  int
	Message string
	// Field names the offending input when the backend reports one.
	Field  string
	Method string
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap exposes the classified application error so callers can use the
// predicates in internal/errors.
func (e *APIError) Unwrap() error {
	return &apperrors.AppError{
		Code:    apperrors.CodeForStatus(e.Status),
		Message: e.Message,
		Field:   e.Field,
	}
}

// errorBody is the JSON error shape the backend returns.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Field   string `json:"field"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Status: status, Method: method, Path: path}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		e.Message = strings.TrimSpace(eb.Message)
		if e.Message == "" {
			e.Message = strings.TrimSpace(eb.Error)
		}
		e.Field = strings.TrimSpace(eb.Field)
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// AsAPIError extracts the backend error, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// IsAuthFailure reports a 401/403 from the backend.
func IsAuthFailure(err error) bool {
	return apperrors.IsSession(err)
}

// IsTransient reports a 5xx, timeout or connectivity failure.
func IsTransient(err error) bool {
	return apperrors.IsTransient(err)
}

// IsValidation reports a 4xx that the user can fix by changing input.
func IsValidation(err error) bool {
	return apperrors.IsUserFacing(err)
}
