package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fleetops/fleetcheck"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Host        string
	Port        int
	Environment string
	LogLevel    string

	// Database settings
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Reporting settings
	ReportTimezone  string
	Location        *time.Location
	CatalogFile     string
	CatalogCacheTTL time.Duration
	AlertLimit      int
	AlertRecipients []string

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Email settings
	EmailProvider        string
	EmailPostmarkToken   string
	EmailPostmarkAccount string
	EmailFromAddress     string
	EmailFromName        string

	// Storage settings
	StorageProvider  string
	StorageLocalPath string
	StorageLocalURL  string
	StorageS3Bucket  string
	StorageS3Region  string
	StorageS3BaseURL string

	// AI settings
	AIProvider     string
	AIClaudeAPIKey string
	AIClaudeModel  string
	AIMaxTokens    int
	AITemperature  float64
}

// LoadConfig loads configuration from environment variables.
func LoadConfig(getenv func(string) string) (*Config, error) {
	aiDefaults := fleetcheck.DefaultAIConfig()

	cfg := &Config{
		// Server settings
		Host:        envString(getenv, "SERVER_HOST", "localhost"),
		Port:        envInt(getenv, "SERVER_PORT", 8080),
		Environment: envString(getenv, "ENVIRONMENT", "dev"),
		LogLevel:    envString(getenv, "LOG_LEVEL", "info"),

		// Database settings
		DBUser:     envString(getenv, "DB_USER", "postgres"),
		DBPassword: envString(getenv, "DB_PASSWORD", ""),
		DBHost:     envString(getenv, "DB_HOSTNAME", "localhost"),
		DBPort:     envString(getenv, "DB_PORT", "5432"),
		DBName:     envString(getenv, "DB_NAME", "fleetcheck"),

		// Reporting settings
		ReportTimezone:  envString(getenv, "REPORT_TIMEZONE", "Europe/Lisbon"),
		CatalogFile:     envString(getenv, "CATALOG_FILE", ""),
		CatalogCacheTTL: envDuration(getenv, "CATALOG_CACHE_TTL", 5*time.Minute),
		AlertLimit:      envInt(getenv, "ALERT_LIMIT", fleetcheck.DefaultAlertLimit),
		AlertRecipients: envList(getenv, "ALERT_RECIPIENTS"),

		// Rate limiting
		RateLimitRPS:   envFloat(getenv, "RATE_LIMIT_RPS", 10),
		RateLimitBurst: envInt(getenv, "RATE_LIMIT_BURST", 20),

		// Email settings
		EmailProvider:        envString(getenv, "EMAIL_PROVIDER", "mock"),
		EmailPostmarkToken:   envString(getenv, "POSTMARK_SERVER_TOKEN", ""),
		EmailPostmarkAccount: envString(getenv, "POSTMARK_ACCOUNT_TOKEN", ""),
		EmailFromAddress:     envString(getenv, "EMAIL_FROM_ADDRESS", "noreply@example.com"),
		EmailFromName:        envString(getenv, "EMAIL_FROM_NAME", "Fleetcheck"),

		// Storage settings
		StorageProvider:  envString(getenv, "STORAGE_PROVIDER", "local"),
		StorageLocalPath: envString(getenv, "STORAGE_LOCAL_PATH", "./reports"),
		StorageLocalURL:  envString(getenv, "STORAGE_LOCAL_URL", "http://localhost:8080/reports"),
		StorageS3Bucket:  envString(getenv, "STORAGE_S3_BUCKET", ""),
		StorageS3Region:  envString(getenv, "STORAGE_S3_REGION", "eu-west-1"),
		StorageS3BaseURL: envString(getenv, "STORAGE_S3_BASE_URL", ""),

		// AI settings
		AIProvider:     envString(getenv, "AI_PROVIDER", aiDefaults.Provider),
		AIClaudeAPIKey: envString(getenv, "CLAUDE_API_KEY", ""),
		AIClaudeModel:  envString(getenv, "CLAUDE_MODEL", aiDefaults.ClaudeModel),
		AIMaxTokens:    envInt(getenv, "AI_MAX_TOKENS", aiDefaults.MaxTokens),
		AITemperature:  envFloat(getenv, "AI_TEMPERATURE", aiDefaults.Temperature),
	}

	loc, err := time.LoadLocation(cfg.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("REPORT_TIMEZONE %q: %w", cfg.ReportTimezone, err)
	}
	cfg.Location = loc

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod" || c.Environment == "production"
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// validate checks settings that cannot be defaulted.
func (c *Config) validate() error {
	if c.AlertLimit < 1 {
		return fmt.Errorf("ALERT_LIMIT must be positive, got %d", c.AlertLimit)
	}

	switch c.StorageProvider {
	case "local":
	case "s3":
		if c.StorageS3Bucket == "" {
			return fmt.Errorf("STORAGE_S3_BUCKET is required when STORAGE_PROVIDER is s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER %q", c.StorageProvider)
	}

	if c.IsProduction() {
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production environment")
		}
		if c.EmailProvider == "postmark" && c.EmailPostmarkToken == "" {
			return fmt.Errorf("POSTMARK_SERVER_TOKEN must be set when EMAIL_PROVIDER is postmark")
		}
		if c.AIProvider == "claude" && c.AIClaudeAPIKey == "" {
			return fmt.Errorf("CLAUDE_API_KEY must be set when AI_PROVIDER is claude")
		}
	}
	return nil
}

// Helper functions for loading environment variables with defaults.

func envString(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func envFloat(getenv func(string) string, key string, defaultValue float64) float64 {
	if value := getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func envDuration(getenv func(string) string, key string, defaultValue time.Duration) time.Duration {
	if value := getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// envList splits a comma-separated variable, dropping empty entries.
func envList(getenv func(string) string, key string) []string {
	var out []string
	for _, part := range strings.Split(getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
