package postgres

import (
	"context"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/patrickmn/go-cache"
)

const catalogCacheKey = "catalog"

// Compile-time check that CachedCatalogService implements fleetcheck.CatalogService.
var _ fleetcheck.CatalogService = (*CachedCatalogService)(nil)

// CachedCatalogService keeps the catalog in memory so that recording an
// inspection or building the dashboard does not reload every checklist.
//
// The cache is per-process. A replacement made through another instance is
// picked up once the entry expires.
type CachedCatalogService struct {
	next  fleetcheck.CatalogService
	cache *cache.Cache
}

// NewCachedCatalogService wraps next with an in-memory cache.
// A ttl of zero or less defaults to 5 minutes.
func NewCachedCatalogService(next fleetcheck.CatalogService, ttl time.Duration) *CachedCatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedCatalogService{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (s *CachedCatalogService) FindCatalog(ctx context.Context) (*fleetcheck.Catalog, error) {
	if cached, found := s.cache.Get(catalogCacheKey); found {
		return cached.(*fleetcheck.Catalog), nil
	}

	c, err := s.next.FindCatalog(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(catalogCacheKey, c)
	return c, nil
}

func (s *CachedCatalogService) ReplaceChecklist(ctx context.Context, t fleetcheck.VehicleType, items []fleetcheck.ChecklistItem) (*fleetcheck.Catalog, error) {
	c, err := s.next.ReplaceChecklist(ctx, t, items)
	if err != nil {
		s.Invalidate()
		return nil, err
	}

	s.cache.SetDefault(catalogCacheKey, c)
	return c, nil
}

// Invalidate drops the cached catalog.
func (s *CachedCatalogService) Invalidate() {
	s.cache.Delete(catalogCacheKey)
}
