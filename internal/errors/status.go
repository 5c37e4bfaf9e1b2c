package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// CodeForStatus maps a backend HTTP status to an ErrorCode.
// 5xx and unknown statuses count as unavailable so the page offers a retry.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case status == http.StatusForbidden:
		return ErrCodeForbidden
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrCodeTimeout
	case status == http.StatusTooManyRequests:
		return ErrCodeUnavailable
	case status >= 400 && status < 500:
		return ErrCodeValidation
	default:
		return ErrCodeUnavailable
	}
}

// StatusForCode maps an ErrorCode to the status this process responds with.
func StatusForCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeUnavailable:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapTransportError classifies a failure that happened before any response
// arrived (dial errors, timeouts, cancellation).
func MapTransportError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "backend did not respond in time")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Wrap(err, ErrCodeTimeout, "backend did not respond in time")
	}
	return Wrap(err, ErrCodeUnavailable, "backend unavailable")
}
