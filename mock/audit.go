package mock

import (
	"context"
	"sync"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/google/uuid"
)

// Compile-time interface check
var _ fleetcheck.AuditService = (*AuditService)(nil)

// AuditService is a mock implementation of fleetcheck.AuditService. Without
// overrides, recorded entries are kept in Entries and served newest first.
type AuditService struct {
	RecordAuditFn      func(ctx context.Context, entry *fleetcheck.AuditEntry) error
	FindAuditEntriesFn func(ctx context.Context, filter fleetcheck.AuditFilter) ([]*fleetcheck.AuditEntry, int, error)

	mu      sync.Mutex
	Entries []*fleetcheck.AuditEntry
}

func (s *AuditService) RecordAudit(ctx context.Context, entry *fleetcheck.AuditEntry) error {
	if s.RecordAuditFn != nil {
		return s.RecordAuditFn(ctx, entry)
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries = append(s.Entries, entry)
	return nil
}

func (s *AuditService) FindAuditEntries(ctx context.Context, filter fleetcheck.AuditFilter) ([]*fleetcheck.AuditEntry, int, error) {
	if s.FindAuditEntriesFn != nil {
		return s.FindAuditEntriesFn(ctx, filter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*fleetcheck.AuditEntry, 0, len(s.Entries))
	for i := len(s.Entries) - 1; i >= 0; i-- {
		e := s.Entries[i]
		if filter.Action != nil && e.Action != *filter.Action {
			continue
		}
		if filter.ResourceType != nil && e.ResourceType != *filter.ResourceType {
			continue
		}
		if filter.ResourceID != nil && e.ResourceID != *filter.ResourceID {
			continue
		}
		out = append(out, e)
	}

	total := len(out)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return out[start:end], total, nil
}
