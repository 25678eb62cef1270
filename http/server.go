// Package http exposes the fleetcheck services over a JSON API.
package http

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/fleetops/fleetcheck/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server with all its dependencies.
type Server struct {
	echo        *echo.Echo
	ln          net.Listener
	logger      *slog.Logger
	rateLimiter *middleware.RateLimiter

	// Configuration
	Addr string

	// Location is the calendar used for date filters and exports.
	Location *time.Location

	// AlertLimit bounds the recent alerts shown on the dashboard.
	AlertLimit int

	// AlertRecipients receive an email for every record with failed items.
	AlertRecipients []string

	// ReportsDir, when set, is served under /reports for local report storage.
	ReportsDir string

	// Domain services
	vehicleService    fleetcheck.VehicleService
	catalogService    fleetcheck.CatalogService
	inspectionService fleetcheck.InspectionService
	auditService      fleetcheck.AuditService

	// External services
	fileStorage  fleetcheck.FileStorage
	emailService fleetcheck.EmailService
	aiService    fleetcheck.AIService
	db           Pinger
}

// Config holds the configuration for creating a new Server.
type Config struct {
	Addr   string
	Logger *slog.Logger

	Location        *time.Location
	AlertLimit      int
	AlertRecipients []string
	ReportsDir      string
	RateLimit       middleware.RateLimitConfig

	// Domain services
	VehicleService    fleetcheck.VehicleService
	CatalogService    fleetcheck.CatalogService
	InspectionService fleetcheck.InspectionService

	// AuditService records roster and checklist changes. Optional.
	AuditService fleetcheck.AuditService

	// External services
	FileStorage  fleetcheck.FileStorage
	EmailService fleetcheck.EmailService
	AIService    fleetcheck.AIService

	// DB is pinged by the readiness check. Optional.
	DB Pinger
}

// NewServer creates a new HTTP server with the given configuration.
func NewServer(cfg Config) *Server {
	s := &Server{
		Addr:              cfg.Addr,
		logger:            cfg.Logger,
		Location:          cfg.Location,
		AlertLimit:        cfg.AlertLimit,
		AlertRecipients:   cfg.AlertRecipients,
		ReportsDir:        cfg.ReportsDir,
		vehicleService:    cfg.VehicleService,
		catalogService:    cfg.CatalogService,
		inspectionService: cfg.InspectionService,
		auditService:      cfg.AuditService,
		fileStorage:       cfg.FileStorage,
		emailService:      cfg.EmailService,
		aiService:         cfg.AIService,
		db:                cfg.DB,
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.AlertLimit <= 0 {
		s.AlertLimit = fleetcheck.DefaultAlertLimit
	}

	s.rateLimiter = middleware.NewRateLimiter(s.logger, cfg.RateLimit)

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true

	// Register middleware and routes
	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// Echo returns the underlying Echo instance.
// Use sparingly - prefer registering routes through Server methods.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Open starts the HTTP server.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.echo.Server.Serve(s.ln); err != nil {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("server started", slog.String("addr", s.Addr))
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.rateLimiter.Shutdown()
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// URL returns the URL of the server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}
