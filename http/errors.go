package http

import (
	"log/slog"
	"net/http"

	"github.com/fleetops/fleetcheck"
	"github.com/labstack/echo/v4"
)

// errorStatusCode maps domain error codes to HTTP status codes.
func errorStatusCode(code string) int {
	switch code {
	case fleetcheck.ENOTFOUND:
		return http.StatusNotFound
	case fleetcheck.EINVALID:
		return http.StatusBadRequest
	case fleetcheck.EMALFORMED:
		return http.StatusUnprocessableEntity
	case fleetcheck.ECONFLICT:
		return http.StatusConflict
	case fleetcheck.ERATELIMIT:
		return http.StatusTooManyRequests
	default:
		// EINTERNAL and EUNRESOLVED
		return http.StatusInternalServerError
	}
}

// httpErrorCode maps echo's own HTTP errors (unknown route, rate limit,
// oversized body) to a domain error code for the response body.
func httpErrorCode(status int) string {
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return fleetcheck.ENOTFOUND
	case http.StatusTooManyRequests:
		return fleetcheck.ERATELIMIT
	case http.StatusConflict:
		return fleetcheck.ECONFLICT
	}
	if status >= 500 {
		return fleetcheck.EINTERNAL
	}
	return fleetcheck.EINVALID
}

// ErrorResponse represents the JSON error response format.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HandleError converts domain errors to appropriate HTTP responses.
// It logs server-side errors and returns user-safe messages.
func HandleError(c echo.Context, logger *slog.Logger, err error) error {
	code := fleetcheck.ErrorCode(err)
	message := fleetcheck.ErrorMessage(err)
	fields := fleetcheck.ErrorFields(err)
	status := errorStatusCode(code)

	switch code {
	case fleetcheck.EINTERNAL:
		logger.Error("internal error",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
			slog.String("method", c.Request().Method),
		)
		// Don't expose internal error details to clients
		message = "An internal error occurred."
	case fleetcheck.EUNRESOLVED:
		// A vehicle type without a checklist is a configuration fault.
		logger.Error("checklist catalog incomplete",
			slog.String("error", err.Error()),
			slog.String("path", c.Path()),
		)
	}

	return c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
		Fields:  fields,
	})
}
