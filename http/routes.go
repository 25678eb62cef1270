package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes sets up all routes for the server.
// All routes are defined in this single file for easy navigation.
func (s *Server) registerRoutes() {
	// Health and metrics
	s.echo.GET("/health", s.handleHealthCheck)
	s.echo.GET("/health/live", s.handleLivenessCheck)
	s.echo.GET("/health/ready", s.handleReadinessCheck)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Reports written by local storage
	if s.ReportsDir != "" {
		s.echo.Static("/reports", s.ReportsDir)
	}

	api := s.echo.Group("/api")

	// Writes are rate limited per client
	limited := s.rateLimiter.Middleware()

	// Vehicles
	api.GET("/vehicles", s.handleListVehicles)
	api.POST("/vehicles", s.handleCreateVehicle, limited)
	api.GET("/vehicles/:fleetNumber", s.handleGetVehicle)
	api.PUT("/vehicles/:fleetNumber", s.handleUpdateVehicle, limited)
	api.DELETE("/vehicles/:fleetNumber", s.handleDeleteVehicle, limited)

	// Checklists
	api.GET("/checklists", s.handleGetCatalog)
	api.GET("/checklists/:type", s.handleGetChecklist)
	api.PUT("/checklists/:type", s.handleReplaceChecklist, limited)

	// Inspections
	api.POST("/inspections", s.handleCreateInspection, limited)
	api.GET("/inspections", s.handleListInspections)
	api.GET("/inspections/export", s.handleExportInspections)
	api.GET("/inspections/:id", s.handleGetInspection)

	// Audit trail of roster and checklist changes
	api.GET("/audit", s.handleListAudit)

	// Reporting
	api.GET("/dashboard", s.handleDashboard)
	api.POST("/reports", s.handleCreateReport, limited)
	api.GET("/reports/*", s.handleGetReport)
	api.DELETE("/reports/*", s.handleDeleteReport, limited)
}
