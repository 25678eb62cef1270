package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/fleetops/fleetcheck/internal/middleware"
	"github.com/fleetops/fleetcheck/internal/validation"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// DefaultTimeout is the default timeout for service calls made by handlers.
const DefaultTimeout = 5 * time.Second

// registerMiddleware sets up all middleware for the server.
func (s *Server) registerMiddleware() {
	s.echo.Use(echomw.Recover())
	s.echo.Use(echomw.RequestID())
	s.echo.Use(s.requestLoggerMiddleware())
	s.echo.Use(middleware.MetricsMiddleware())

	s.echo.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, HeaderIfNoneMatch, HeaderOperator},
		ExposeHeaders: []string{HeaderETag, echo.HeaderXRequestID},
	}))

	s.echo.Validator = validation.NewValidator()
	s.echo.HTTPErrorHandler = s.httpErrorHandler
}

// requestLoggerMiddleware attaches a request-scoped logger and the request ID
// to the request, and logs each request on completion.
func (s *Server) requestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			logger := s.logger.With(
				slog.String("request_id", requestID),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
			)
			c.Set("logger", logger)

			ctx := fleetcheck.NewContextWithRequestID(c.Request().Context(), requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)

			status := c.Response().Status
			logAttrs := []any{
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			}

			switch {
			case err != nil:
				logAttrs = append(logAttrs, slog.String("error", err.Error()))
				logger.Error("request failed", logAttrs...)
			case status >= 500:
				logger.Error("request completed with server error", logAttrs...)
			case status >= 400:
				logger.Warn("request completed with client error", logAttrs...)
			default:
				logger.Info("request completed", logAttrs...)
			}

			return err
		}
	}
}

// httpErrorHandler handles errors and returns appropriate responses.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if he, ok := err.(*echo.HTTPError); ok {
		code := httpErrorCode(he.Code)
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		_ = c.JSON(he.Code, ErrorResponse{Error: code, Message: msg})
		return
	}

	_ = HandleError(c, s.getRequestLogger(c), err)
}

// getRequestLogger retrieves the request-scoped logger from context.
func (s *Server) getRequestLogger(c echo.Context) *slog.Logger {
	if logger, ok := c.Get("logger").(*slog.Logger); ok {
		return logger
	}
	return s.logger
}
