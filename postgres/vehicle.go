package postgres

import (
	"context"
	"errors"

	"github.com/fleetops/fleetcheck"
	"github.com/jackc/pgx/v5"
)

// Compile-time check that VehicleService implements fleetcheck.VehicleService.
var _ fleetcheck.VehicleService = (*VehicleService)(nil)

// VehicleService implements fleetcheck.VehicleService using PostgreSQL.
type VehicleService struct {
	db *DB
}

func (s *VehicleService) FindVehicleByFleetNumber(ctx context.Context, fleetNumber string) (*fleetcheck.Vehicle, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE fleet_number = $1`, fleetNumber)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fleetcheck.NotFound("Vehicle %s not found", fleetNumber)
		}
		return nil, fleetcheck.Internal("Failed to fetch vehicle", err)
	}
	return v, nil
}

func (s *VehicleService) FindVehicles(ctx context.Context, filter fleetcheck.VehicleFilter) ([]*fleetcheck.Vehicle, int, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE ($1::text IS NULL OR vehicle_type = $1)
		  AND ($2::text IS NULL OR station = $2)
		ORDER BY fleet_number`,
		typePtr(filter.Type), filter.Station)
	if err != nil {
		return nil, 0, fleetcheck.Internal("Failed to list vehicles", err)
	}
	defer rows.Close()

	var vehicles []*fleetcheck.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, fleetcheck.Internal("Failed to read vehicle", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fleetcheck.Internal("Failed to list vehicles", err)
	}

	total := len(vehicles)
	return paginate(vehicles, filter.Offset, filter.Limit), total, nil
}

func (s *VehicleService) CreateVehicle(ctx context.Context, vehicle *fleetcheck.Vehicle) error {
	if vehicle.FleetNumber == "" {
		return fleetcheck.Invalid("Fleet number is required")
	}
	if !vehicle.Type.IsValid() {
		return fleetcheck.Invalid("Unknown vehicle type %q", string(vehicle.Type))
	}

	row := s.db.pool.QueryRow(ctx, `
		INSERT INTO vehicles (fleet_number, license_plate, vehicle_type, station, model)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+vehicleColumns,
		vehicle.FleetNumber, vehicle.LicensePlate, string(vehicle.Type), vehicle.Station, vehicle.Model)
	created, err := scanVehicle(row)
	if err != nil {
		if isUniqueViolation(err) {
			return fleetcheck.Conflict("Fleet number %s is already in use", vehicle.FleetNumber)
		}
		if isCheckViolation(err) {
			return fleetcheck.Invalid("Vehicle violates roster constraints")
		}
		return fleetcheck.Internal("Failed to create vehicle", err)
	}

	*vehicle = *created
	return nil
}

func (s *VehicleService) UpdateVehicle(ctx context.Context, fleetNumber string, upd fleetcheck.VehicleUpdate) (*fleetcheck.Vehicle, error) {
	if upd.Type != nil && !upd.Type.IsValid() {
		return nil, fleetcheck.Invalid("Unknown vehicle type %q", string(*upd.Type))
	}

	row := s.db.pool.QueryRow(ctx, `
		UPDATE vehicles SET
			license_plate = COALESCE($2, license_plate),
			vehicle_type  = COALESCE($3, vehicle_type),
			station       = COALESCE($4, station),
			model         = COALESCE($5, model),
			updated_at    = now()
		WHERE fleet_number = $1
		RETURNING `+vehicleColumns,
		fleetNumber, upd.LicensePlate, typePtr(upd.Type), upd.Station, upd.Model)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fleetcheck.NotFound("Vehicle %s not found", fleetNumber)
		}
		return nil, fleetcheck.Internal("Failed to update vehicle", err)
	}
	return v, nil
}

func (s *VehicleService) DeleteVehicle(ctx context.Context, fleetNumber string) error {
	tag, err := s.db.pool.Exec(ctx, `DELETE FROM vehicles WHERE fleet_number = $1`, fleetNumber)
	if err != nil {
		return fleetcheck.Internal("Failed to delete vehicle", err)
	}
	if tag.RowsAffected() == 0 {
		return fleetcheck.NotFound("Vehicle %s not found", fleetNumber)
	}
	return nil
}
