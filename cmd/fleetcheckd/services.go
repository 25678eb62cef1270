package main

import (
	"context"
	"log/slog"

	"github.com/fleetops/fleetcheck"
	"github.com/fleetops/fleetcheck/internal/ai"
	"github.com/fleetops/fleetcheck/internal/catalogfile"
	"github.com/fleetops/fleetcheck/internal/email"
	"github.com/fleetops/fleetcheck/internal/storage"
	"github.com/fleetops/fleetcheck/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Services holds all application services.
type Services struct {
	DB                *postgres.DB
	VehicleService    fleetcheck.VehicleService
	CatalogService    fleetcheck.CatalogService
	InspectionService fleetcheck.InspectionService
	AuditService      fleetcheck.AuditService
	FileStorage       fleetcheck.FileStorage
	EmailService      fleetcheck.EmailService
	AIService         fleetcheck.AIService
}

// initServices initializes all application services. The database is
// seeded with the startup catalog and the default roster while file storage
// is being set up.
func initServices(ctx context.Context, pool *pgxpool.Pool, cfg *Config, logger *slog.Logger) (*Services, error) {
	db := postgres.NewDB(pool, cfg.Location)
	logger.Info("database services initialized")

	catalog, err := loadCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}

	var fileStorage fleetcheck.FileStorage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.Seed(gctx, catalog, fleetcheck.DefaultVehicles(), logger)
	})
	g.Go(func() error {
		var err error
		fileStorage, err = initFileStorage(gctx, cfg, logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Info("file storage initialized", slog.String("provider", cfg.StorageProvider))

	emailService := initEmailService(cfg, logger)
	logger.Info("email service initialized", slog.String("provider", cfg.EmailProvider))

	aiService := initAIService(cfg, logger)
	logger.Info("AI service initialized", slog.String("provider", cfg.AIProvider))

	return &Services{
		DB:                db,
		VehicleService:    db.VehicleService,
		CatalogService:    postgres.NewCachedCatalogService(db.CatalogService, cfg.CatalogCacheTTL),
		InspectionService: db.InspectionService,
		AuditService:      db.AuditService,
		FileStorage:       fileStorage,
		EmailService:      emailService,
		AIService:         aiService,
	}, nil
}

// loadCatalog returns the catalog used to seed empty checklist tables.
func loadCatalog(cfg *Config, logger *slog.Logger) (*fleetcheck.Catalog, error) {
	if cfg.CatalogFile == "" {
		return fleetcheck.DefaultCatalog(), nil
	}
	catalog, err := catalogfile.ReadFromFile(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog file loaded", slog.String("path", cfg.CatalogFile))
	return catalog, nil
}

// initFileStorage creates the appropriate file storage implementation.
func initFileStorage(ctx context.Context, cfg *Config, logger *slog.Logger) (fleetcheck.FileStorage, error) {
	logger.Debug("storage service configuration",
		slog.String("provider", cfg.StorageProvider),
		slog.String("local_path", cfg.StorageLocalPath),
		slog.String("s3_bucket", cfg.StorageS3Bucket),
		slog.String("s3_region", cfg.StorageS3Region))

	return storage.NewFileStorage(ctx, logger, fleetcheck.StorageConfig{
		Provider:  cfg.StorageProvider,
		LocalPath: cfg.StorageLocalPath,
		LocalURL:  cfg.StorageLocalURL,
		S3Bucket:  cfg.StorageS3Bucket,
		S3Region:  cfg.StorageS3Region,
		S3BaseURL: cfg.StorageS3BaseURL,
	})
}

// initEmailService creates the appropriate email service implementation.
func initEmailService(cfg *Config, logger *slog.Logger) fleetcheck.EmailService {
	logger.Debug("email service configuration",
		slog.String("provider", cfg.EmailProvider),
		slog.String("from_address", cfg.EmailFromAddress),
		slog.Int("alert_recipients", len(cfg.AlertRecipients)))

	return email.NewEmailService(logger, fleetcheck.EmailConfig{
		Provider:             cfg.EmailProvider,
		FromAddress:          cfg.EmailFromAddress,
		FromName:             cfg.EmailFromName,
		PostmarkServerToken:  cfg.EmailPostmarkToken,
		PostmarkAccountToken: cfg.EmailPostmarkAccount,
	})
}

// initAIService creates the appropriate AI service implementation.
func initAIService(cfg *Config, logger *slog.Logger) fleetcheck.AIService {
	logger.Debug("AI service configuration",
		slog.String("provider", cfg.AIProvider),
		slog.String("model", cfg.AIClaudeModel))

	return ai.NewAIService(logger, fleetcheck.AIConfig{
		Provider:     cfg.AIProvider,
		ClaudeAPIKey: cfg.AIClaudeAPIKey,
		ClaudeModel:  cfg.AIClaudeModel,
		MaxTokens:    cfg.AIMaxTokens,
		Temperature:  cfg.AITemperature,
	})
}
