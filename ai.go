package fleetcheck

import "context"

// AIService produces free-text summaries of inspection records.
type AIService interface {
	// SummarizeInspection returns a short maintenance summary of the failed
	// items of a record, suitable for the record's AISummary field.
	SummarizeInspection(ctx context.Context, record *InspectionRecord) (string, error)
}

// AIConfig holds configuration for AI services.
type AIConfig struct {
	// Provider is the AI provider ("mock" or "claude").
	Provider string

	// Claude-specific configuration
	ClaudeAPIKey string
	ClaudeModel  string

	MaxTokens   int
	Temperature float64
}

// DefaultAIConfig returns the default AI configuration.
func DefaultAIConfig() AIConfig {
	return AIConfig{
		Provider:    "mock",
		ClaudeModel: "claude-sonnet-4-20250514",
		MaxTokens:   512,
		Temperature: 0.3,
	}
}
