package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fleetops/fleetcheck"
	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Compile-time check that InspectionService implements fleetcheck.InspectionService.
var _ fleetcheck.InspectionService = (*InspectionService)(nil)

// InspectionService implements fleetcheck.InspectionService using PostgreSQL.
type InspectionService struct {
	db *DB
}

func (s *InspectionService) FindInspectionByID(ctx context.Context, id uuid.UUID) (*fleetcheck.InspectionRecord, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+inspectionColumns+` FROM inspections WHERE id = $1`, toPgUUID(id))
	r, err := scanInspection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fleetcheck.NotFound("Inspection not found")
		}
		return nil, fleetcheck.Internal("Failed to fetch inspection", err)
	}
	return r, nil
}

func (s *InspectionService) FindInspections(ctx context.Context, filter fleetcheck.InspectionFilter) ([]*fleetcheck.InspectionRecord, int, error) {
	if filter.ID != nil {
		r, err := s.FindInspectionByID(ctx, *filter.ID)
		if err != nil {
			if fleetcheck.ErrorCode(err) == fleetcheck.ENOTFOUND {
				return []*fleetcheck.InspectionRecord{}, 0, nil
			}
			return nil, 0, err
		}
		return []*fleetcheck.InspectionRecord{r}, 1, nil
	}

	rows, err := s.db.pool.Query(ctx, `
		SELECT `+inspectionColumns+`
		FROM inspections
		WHERE ($1::text IS NULL OR fleet_number = $1)
		  AND ($2::timestamptz IS NULL OR inspected_at >= $2)
		  AND ($3::timestamptz IS NULL OR inspected_at < $3)
		ORDER BY inspected_at DESC, created_at DESC`,
		filter.FleetNumber, filter.From, filter.To)
	if err != nil {
		return nil, 0, fleetcheck.Internal("Failed to list inspections", err)
	}
	defer rows.Close()

	records := []*fleetcheck.InspectionRecord{}
	for rows.Next() {
		r, err := scanInspection(rows)
		if err != nil {
			return nil, 0, fleetcheck.Internal("Failed to read inspection", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fleetcheck.Internal("Failed to list inspections", err)
	}

	total := len(records)
	return paginate(records, filter.Offset, filter.Limit), total, nil
}

// CreateInspection stores the record with a snapshot of its vehicle as it is
// in the roster at creation time, and advances the vehicle's last inspection
// date in the same transaction.
func (s *InspectionService) CreateInspection(ctx context.Context, record *fleetcheck.InspectionRecord) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return fleetcheck.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	vehicle, err := scanVehicle(tx.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE fleet_number = $1 FOR UPDATE`,
		record.Vehicle.FleetNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fleetcheck.NotFound("Vehicle %s not found", record.Vehicle.FleetNumber)
		}
		return fleetcheck.Internal("Failed to fetch vehicle", err)
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	// The row is locked, so the later of the stored and new dates can be
	// settled here and captured in the snapshot.
	inspectedOn := civil.DateOf(record.Date.In(s.db.loc))
	if last, err := civil.ParseDate(vehicle.LastInspectionDate); err == nil && last.After(inspectedOn) {
		inspectedOn = last
	}
	vehicle.LastInspectionDate = inspectedOn.String()
	record.Vehicle = *vehicle

	vehicleJSON, err := json.Marshal(record.Vehicle)
	if err != nil {
		return fleetcheck.Internal("Failed to encode vehicle snapshot", err)
	}
	resultsJSON, err := json.Marshal(record.Results)
	if err != nil {
		return fleetcheck.Internal("Failed to encode results", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO inspections (id, fleet_number, vehicle, inspected_at, inspector_name, results, ai_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		toPgUUID(record.ID), vehicle.FleetNumber, vehicleJSON, record.Date,
		record.InspectorName, resultsJSON, toPgText(record.AISummary))
	if err != nil {
		if isUniqueViolation(err) {
			return fleetcheck.Conflict("Inspection %s already exists", record.ID)
		}
		return fleetcheck.Internal("Failed to store inspection", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE vehicles
		SET last_inspection_date = $2, updated_at = now()
		WHERE fleet_number = $1`,
		vehicle.FleetNumber, toPgDate(inspectedOn))
	if err != nil {
		return fleetcheck.Internal("Failed to update last inspection date", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fleetcheck.Internal("Failed to commit inspection", err)
	}

	return nil
}
