package postgres

import (
	"context"

	"github.com/fleetops/fleetcheck"
	"github.com/jackc/pgx/v5"
)

// Compile-time check that CatalogService implements fleetcheck.CatalogService.
var _ fleetcheck.CatalogService = (*CatalogService)(nil)

// CatalogService implements fleetcheck.CatalogService using PostgreSQL.
type CatalogService struct {
	db *DB
}

func (s *CatalogService) FindCatalog(ctx context.Context) (*fleetcheck.Catalog, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT vehicle_type, item_id, category, label
		FROM checklist_items
		ORDER BY vehicle_type, position`)
	if err != nil {
		return nil, fleetcheck.Internal("Failed to load checklists", err)
	}
	defer rows.Close()

	lists := make(map[fleetcheck.VehicleType][]fleetcheck.ChecklistItem)
	for rows.Next() {
		var (
			vtype string
			item  fleetcheck.ChecklistItem
		)
		if err := rows.Scan(&vtype, &item.ID, &item.Category, &item.Label); err != nil {
			return nil, fleetcheck.Internal("Failed to read checklist item", err)
		}
		t := fleetcheck.VehicleType(vtype)
		lists[t] = append(lists[t], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fleetcheck.Internal("Failed to load checklists", err)
	}

	return fleetcheck.NewCatalog(lists)
}

func (s *CatalogService) ReplaceChecklist(ctx context.Context, t fleetcheck.VehicleType, items []fleetcheck.ChecklistItem) (*fleetcheck.Catalog, error) {
	if !t.IsValid() {
		return nil, fleetcheck.Invalid("Unknown vehicle type %q", string(t))
	}
	if err := fleetcheck.ValidateChecklist(items); err != nil {
		return nil, err
	}

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return nil, fleetcheck.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := replaceChecklistTx(ctx, tx, t, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fleetcheck.Internal("Failed to commit checklist", err)
	}

	return s.FindCatalog(ctx)
}

// replaceChecklistTx swaps t's checklist rows inside tx.
func replaceChecklistTx(ctx context.Context, tx pgx.Tx, t fleetcheck.VehicleType, items []fleetcheck.ChecklistItem) error {
	if _, err := tx.Exec(ctx, `DELETE FROM checklist_items WHERE vehicle_type = $1`, string(t)); err != nil {
		return fleetcheck.Internal("Failed to clear checklist", err)
	}

	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = []any{string(t), item.ID, i, fleetcheck.NormalizeCategory(item.Category), item.Label}
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"checklist_items"},
		[]string{"vehicle_type", "item_id", "position", "category", "label"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fleetcheck.Internal("Failed to store checklist", err)
	}
	return nil
}
