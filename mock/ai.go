package mock

import (
	"context"

	"github.com/fleetops/fleetcheck"
)

// Compile-time interface check
var _ fleetcheck.AIService = (*AIService)(nil)

// AIService is a mock implementation of fleetcheck.AIService.
type AIService struct {
	SummarizeInspectionFn func(ctx context.Context, record *fleetcheck.InspectionRecord) (string, error)

	// Calls counts SummarizeInspection invocations.
	Calls int
}

func (s *AIService) SummarizeInspection(ctx context.Context, record *fleetcheck.InspectionRecord) (string, error) {
	s.Calls++
	if s.SummarizeInspectionFn != nil {
		return s.SummarizeInspectionFn(ctx, record)
	}
	return "Mock summary", nil
}
