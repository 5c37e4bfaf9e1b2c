package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/salonhub/salon-admin/internal/errors"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAppError maps err to its HTTP status and user-facing message.
// Errors without an application code are reported as internal.
func WriteAppError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	msg := apperrors.GetMessage(err)
	if !apperrors.IsUserFacing(err) {
		msg = http.StatusText(http.StatusInternalServerError)
	}
	WriteJSON(w, apperrors.StatusForCode(code), map[string]string{"error": string(code), "message": msg})
}
