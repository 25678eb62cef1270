package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/fleetops/fleetcheck/mock"
	"github.com/fleetops/fleetcheck/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedCatalogService_FindCatalog(t *testing.T) {
	ctx := context.Background()
	next := &mock.CatalogService{}
	svc := postgres.NewCachedCatalogService(next, time.Minute)

	first, err := svc.FindCatalog(ctx)
	require.NoError(t, err)
	second, err := svc.FindCatalog(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, next.FindCatalogCalls)

	svc.Invalidate()
	_, err = svc.FindCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, next.FindCatalogCalls)
}

func TestCachedCatalogService_FindCatalogError(t *testing.T) {
	ctx := context.Background()
	next := &mock.CatalogService{
		FindCatalogFn: func(ctx context.Context) (*fleetcheck.Catalog, error) {
			return nil, fleetcheck.UnresolvedVehicleType(fleetcheck.VehicleTypeTram)
		},
	}
	svc := postgres.NewCachedCatalogService(next, time.Minute)

	_, err := svc.FindCatalog(ctx)
	require.Error(t, err)
	_, err = svc.FindCatalog(ctx)
	require.Error(t, err)

	// Errors are not cached.
	assert.Equal(t, 2, next.FindCatalogCalls)
}

func TestCachedCatalogService_ReplaceChecklist(t *testing.T) {
	ctx := context.Background()
	next := &mock.CatalogService{}
	svc := postgres.NewCachedCatalogService(next, time.Minute)

	_, err := svc.FindCatalog(ctx)
	require.NoError(t, err)

	items := []fleetcheck.ChecklistItem{{ID: "t1", Category: "Mecânica", Label: "Pantógrafo"}}
	replaced, err := svc.ReplaceChecklist(ctx, fleetcheck.VehicleTypeTram, items)
	require.NoError(t, err)

	current, err := svc.FindCatalog(ctx)
	require.NoError(t, err)
	assert.Same(t, replaced, current)
	assert.Equal(t, 1, next.FindCatalogCalls)
}

func TestCachedCatalogService_ReplaceFailureInvalidates(t *testing.T) {
	ctx := context.Background()
	next := &mock.CatalogService{
		ReplaceChecklistFn: func(ctx context.Context, t fleetcheck.VehicleType, items []fleetcheck.ChecklistItem) (*fleetcheck.Catalog, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := postgres.NewCachedCatalogService(next, time.Minute)

	_, err := svc.FindCatalog(ctx)
	require.NoError(t, err)

	_, err = svc.ReplaceChecklist(ctx, fleetcheck.VehicleTypeBus, nil)
	require.Error(t, err)

	_, err = svc.FindCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, next.FindCatalogCalls)
}
