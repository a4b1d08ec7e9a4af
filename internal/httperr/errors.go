package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"nexnote/internal/metrics"
	"nexnote/internal/observability"
)

// Error is a service failure that maps to a specific HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // Message surfaced verbatim to the client
}

func (e *Error) Error() string { return e.Message }

// Validation reports missing or out-of-range input (400).
func Validation(msg string) error { return &Error{Code: http.StatusBadRequest, Message: msg} }

// Unauthorized reports a missing or invalid credential (401).
func Unauthorized(msg string) error { return &Error{Code: http.StatusUnauthorized, Message: msg} }

// Forbidden reports an authenticated caller with insufficient role or ownership (403).
func Forbidden(msg string) error { return &Error{Code: http.StatusForbidden, Message: msg} }

// NotFound reports a missing entity or file (404).
func NotFound(msg string) error { return &Error{Code: http.StatusNotFound, Message: msg} }

// Conflict reports a duplicate unique field (409).
func Conflict(msg string) error { return &Error{Code: http.StatusConflict, Message: msg} }

// JSON writes err to the client as an {"error": ...} payload. Classified errors
// keep their status and message; anything else becomes a 500 and is reported.
func JSON(c echo.Context, err error) error {
	var he *Error
	if errors.As(err, &he) {
		return c.JSON(he.Code, map[string]string{"error": he.Message})
	}
	metrics.HandlerErrors.Inc()
	observability.CaptureErr(err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server error"})
}
