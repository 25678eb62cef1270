// Package postgres provides PostgreSQL implementations of domain service interfaces.
package postgres

import (
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the database connection pool and exposes domain services.
type DB struct {
	pool *pgxpool.Pool

	// loc is the time zone used to derive a vehicle's last inspection date.
	loc *time.Location

	// Domain services (initialized in NewDB)
	VehicleService    fleetcheck.VehicleService
	CatalogService    fleetcheck.CatalogService
	InspectionService fleetcheck.InspectionService
	AuditService      fleetcheck.AuditService
}

// NewDB creates a new database wrapper with all services initialized.
// loc selects the calendar used for Vehicle.LastInspectionDate; nil means UTC.
func NewDB(pool *pgxpool.Pool, loc *time.Location) *DB {
	if loc == nil {
		loc = time.UTC
	}
	db := &DB{
		pool: pool,
		loc:  loc,
	}

	// Initialize services with reference back to DB
	db.VehicleService = &VehicleService{db: db}
	db.CatalogService = &CatalogService{db: db}
	db.InspectionService = &InspectionService{db: db}
	db.AuditService = &AuditService{db: db}

	return db
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer using service methods.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}
