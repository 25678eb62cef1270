package mock

import (
	"context"

	"github.com/fleetops/fleetcheck"
	"github.com/google/uuid"
)

// Compile-time interface check
var _ fleetcheck.InspectionService = (*InspectionService)(nil)

// InspectionService is a mock implementation of fleetcheck.InspectionService.
type InspectionService struct {
	FindInspectionByIDFn func(ctx context.Context, id uuid.UUID) (*fleetcheck.InspectionRecord, error)
	FindInspectionsFn    func(ctx context.Context, filter fleetcheck.InspectionFilter) ([]*fleetcheck.InspectionRecord, int, error)
	CreateInspectionFn   func(ctx context.Context, record *fleetcheck.InspectionRecord) error

	// Created holds every record passed to CreateInspection.
	Created []*fleetcheck.InspectionRecord
}

func (s *InspectionService) FindInspectionByID(ctx context.Context, id uuid.UUID) (*fleetcheck.InspectionRecord, error) {
	if s.FindInspectionByIDFn != nil {
		return s.FindInspectionByIDFn(ctx, id)
	}
	return nil, fleetcheck.NotFound("Inspection not found")
}

func (s *InspectionService) FindInspections(ctx context.Context, filter fleetcheck.InspectionFilter) ([]*fleetcheck.InspectionRecord, int, error) {
	if s.FindInspectionsFn != nil {
		return s.FindInspectionsFn(ctx, filter)
	}
	return []*fleetcheck.InspectionRecord{}, 0, nil
}

func (s *InspectionService) CreateInspection(ctx context.Context, record *fleetcheck.InspectionRecord) error {
	s.Created = append(s.Created, record)
	if s.CreateInspectionFn != nil {
		return s.CreateInspectionFn(ctx, record)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return nil
}
