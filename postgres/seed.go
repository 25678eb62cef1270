package postgres

import (
	"context"
	"log/slog"

	"github.com/fleetops/fleetcheck"
)

// Seed installs catalog and roster rows on an empty database. A vehicle type
// that already has a checklist is left alone, as is a non-empty roster.
func (db *DB) Seed(ctx context.Context, catalog *fleetcheck.Catalog, vehicles []*fleetcheck.Vehicle, logger *slog.Logger) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fleetcheck.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range catalog.Types() {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM checklist_items WHERE vehicle_type = $1)`,
			string(t)).Scan(&exists)
		if err != nil {
			return fleetcheck.Internal("Failed to inspect checklists", err)
		}
		if exists {
			continue
		}

		items, err := catalog.Checklist(t)
		if err != nil {
			return err
		}
		if err := replaceChecklistTx(ctx, tx, t, items); err != nil {
			return err
		}
		logger.Info("seeded checklist", slog.String("vehicle_type", t.String()), slog.Int("items", len(items)))
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM vehicles`).Scan(&count); err != nil {
		return fleetcheck.Internal("Failed to count vehicles", err)
	}
	if count == 0 {
		for _, v := range vehicles {
			_, err := tx.Exec(ctx, `
				INSERT INTO vehicles (fleet_number, license_plate, vehicle_type, station, model)
				VALUES ($1, $2, $3, $4, $5)`,
				v.FleetNumber, v.LicensePlate, string(v.Type), v.Station, v.Model)
			if err != nil {
				return fleetcheck.Internal("Failed to seed vehicle "+v.FleetNumber, err)
			}
		}
		logger.Info("seeded roster", slog.Int("vehicles", len(vehicles)))
	}

	if err := tx.Commit(ctx); err != nil {
		return fleetcheck.Internal("Failed to commit seed data", err)
	}
	return nil
}
