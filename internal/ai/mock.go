package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fleetops/fleetcheck"
)

// mockAIService is a mock implementation for development and testing.
type mockAIService struct {
	logger *slog.Logger
}

// newMockAIService creates a new mock AI service.
func newMockAIService(logger *slog.Logger) *mockAIService {
	return &mockAIService{
		logger: logger,
	}
}

// SummarizeInspection returns a deterministic summary built from the failed
// item labels.
func (s *mockAIService) SummarizeInspection(ctx context.Context, record *fleetcheck.InspectionRecord) (string, error) {
	failed := record.FailedResults()
	s.logger.Info("MOCK AI: summarizing inspection",
		slog.String("fleet_number", record.Vehicle.FleetNumber),
		slog.Int("failed_items", len(failed)))

	if len(failed) == 0 {
		return "", nil
	}

	labels := make([]string, len(failed))
	for i, res := range failed {
		labels[i] = res.Label
	}
	return fmt.Sprintf("Verificar antes da saída: %s.", strings.Join(labels, "; ")), nil
}
