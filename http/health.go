package http

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleHealthCheck(c echo.Context) error {
	return RespondOK(c, map[string]string{"status": "ok"})
}

func (s *Server) handleLivenessCheck(c echo.Context) error {
	return RespondOK(c, map[string]string{"status": "alive"})
}

// handleReadinessCheck reports ready once the database answers and the
// checklist catalog covers every vehicle type.
func (s *Server) handleReadinessCheck(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	checks := map[string]string{"database": "ok", "catalog": "ok"}
	ready := true

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			s.log(c).Warn("readiness: database unreachable", slog.String("error", err.Error()))
			checks["database"] = "unreachable"
			ready = false
		}
	}
	if _, err := s.catalogService.FindCatalog(ctx); err != nil {
		s.log(c).Warn("readiness: catalog unavailable", slog.String("error", err.Error()))
		checks["catalog"] = "unavailable"
		ready = false
	}

	if !ready {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "not ready", "checks": checks})
	}
	return RespondOK(c, map[string]any{"status": "ready", "checks": checks})
}
