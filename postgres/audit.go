package postgres

import (
	"context"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Compile-time check that AuditService implements fleetcheck.AuditService.
var _ fleetcheck.AuditService = (*AuditService)(nil)

// AuditService implements fleetcheck.AuditService using PostgreSQL.
type AuditService struct {
	db *DB
}

func (s *AuditService) RecordAudit(ctx context.Context, entry *fleetcheck.AuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO audit_log (
			id, action, resource_type, resource_id, actor,
			old_values, new_values, ip_address, user_agent, request_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		toPgUUID(entry.ID),
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.Actor,
		jsonOrNull(entry.OldValues),
		jsonOrNull(entry.NewValues),
		entry.IPAddress,
		entry.UserAgent,
		entry.RequestID,
		entry.CreatedAt,
	)
	if err != nil {
		return fleetcheck.Internal("Failed to record audit entry", err)
	}
	return nil
}

func (s *AuditService) FindAuditEntries(ctx context.Context, filter fleetcheck.AuditFilter) ([]*fleetcheck.AuditEntry, int, error) {
	var limit *int
	if filter.Limit > 0 {
		limit = &filter.Limit
	}

	rows, err := s.db.pool.Query(ctx, `
		SELECT id, action, resource_type, resource_id, actor,
		       old_values, new_values, ip_address, user_agent, request_id, created_at,
		       COUNT(*) OVER () AS total
		FROM audit_log
		WHERE ($1::text IS NULL OR action = $1)
		  AND ($2::text IS NULL OR resource_type = $2)
		  AND ($3::text IS NULL OR resource_id = $3)
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5`,
		filter.Action, filter.ResourceType, filter.ResourceID, limit, filter.Offset)
	if err != nil {
		return nil, 0, fleetcheck.Internal("Failed to list audit entries", err)
	}
	defer rows.Close()

	var (
		entries []*fleetcheck.AuditEntry
		total   int
	)
	for rows.Next() {
		var (
			e        fleetcheck.AuditEntry
			id       pgtype.UUID
			oldJSON  []byte
			newJSON  []byte
			rowTotal int64
		)
		err := rows.Scan(
			&id,
			&e.Action,
			&e.ResourceType,
			&e.ResourceID,
			&e.Actor,
			&oldJSON,
			&newJSON,
			&e.IPAddress,
			&e.UserAgent,
			&e.RequestID,
			&e.CreatedAt,
			&rowTotal,
		)
		if err != nil {
			return nil, 0, fleetcheck.Internal("Failed to read audit entry", err)
		}
		e.ID = fromPgUUID(id)
		e.OldValues = oldJSON
		e.NewValues = newJSON
		total = int(rowTotal)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fleetcheck.Internal("Failed to list audit entries", err)
	}

	// An offset past the end returns no rows and so no window count.
	if len(entries) == 0 && filter.Offset > 0 {
		if err := s.db.pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM audit_log
			WHERE ($1::text IS NULL OR action = $1)
			  AND ($2::text IS NULL OR resource_type = $2)
			  AND ($3::text IS NULL OR resource_id = $3)`,
			filter.Action, filter.ResourceType, filter.ResourceID).Scan(&total); err != nil {
			return nil, 0, fleetcheck.Internal("Failed to count audit entries", err)
		}
	}

	return entries, total, nil
}

// jsonOrNull passes an empty document as SQL NULL.
func jsonOrNull(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
