package mock

import (
	"context"

	"github.com/fleetops/fleetcheck"
)

// Compile-time interface check
var _ fleetcheck.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of fleetcheck.CatalogService.
// Without overrides it serves fleetcheck.DefaultCatalog.
type CatalogService struct {
	FindCatalogFn      func(ctx context.Context) (*fleetcheck.Catalog, error)
	ReplaceChecklistFn func(ctx context.Context, t fleetcheck.VehicleType, items []fleetcheck.ChecklistItem) (*fleetcheck.Catalog, error)

	// FindCatalogCalls counts FindCatalog invocations.
	FindCatalogCalls int
}

func (s *CatalogService) FindCatalog(ctx context.Context) (*fleetcheck.Catalog, error) {
	s.FindCatalogCalls++
	if s.FindCatalogFn != nil {
		return s.FindCatalogFn(ctx)
	}
	return fleetcheck.DefaultCatalog(), nil
}

func (s *CatalogService) ReplaceChecklist(ctx context.Context, t fleetcheck.VehicleType, items []fleetcheck.ChecklistItem) (*fleetcheck.Catalog, error) {
	if s.ReplaceChecklistFn != nil {
		return s.ReplaceChecklistFn(ctx, t, items)
	}
	if err := fleetcheck.ValidateChecklist(items); err != nil {
		return nil, err
	}
	return fleetcheck.DefaultCatalog().With(t, items)
}
