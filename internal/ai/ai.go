// Package ai provides implementations of fleetcheck.AIService.
package ai

import (
	"log/slog"

	"github.com/fleetops/fleetcheck"
)

// NewAIService creates an AI service based on the provider configuration.
// Unknown providers fall back to the mock.
func NewAIService(logger *slog.Logger, config fleetcheck.AIConfig) fleetcheck.AIService {
	switch config.Provider {
	case "claude":
		return newClaudeService(logger, config)
	default:
		return newMockAIService(logger)
	}
}
