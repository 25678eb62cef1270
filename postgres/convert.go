package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// UUID conversions

// toPgUUID converts a google/uuid.UUID to pgtype.UUID.
func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: id != uuid.Nil}
}

// fromPgUUID converts a pgtype.UUID to google/uuid.UUID.
func fromPgUUID(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.UUID{}
	}
	return uuid.UUID(id.Bytes)
}

// Text conversions

// toPgText converts a string to pgtype.Text.
func toPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

// fromPgText converts a pgtype.Text to string.
func fromPgText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// Date conversions

// toPgDate converts a civil date to pgtype.Date.
func toPgDate(d civil.Date) pgtype.Date {
	return pgtype.Date{Time: d.In(time.UTC), Valid: d.IsValid()}
}

// fromPgDate formats a pgtype.Date as YYYY-MM-DD, or empty if NULL.
func fromPgDate(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return civil.DateOf(d.Time).String()
}

// Vehicle conversions

const vehicleColumns = `fleet_number, license_plate, vehicle_type, station, model, last_inspection_date`

// scanVehicle reads a row selected with vehicleColumns.
func scanVehicle(row pgx.Row) (*fleetcheck.Vehicle, error) {
	var (
		v        fleetcheck.Vehicle
		vtype    string
		lastDate pgtype.Date
	)
	if err := row.Scan(&v.FleetNumber, &v.LicensePlate, &vtype, &v.Station, &v.Model, &lastDate); err != nil {
		return nil, err
	}
	v.Type = fleetcheck.VehicleType(vtype)
	v.LastInspectionDate = fromPgDate(lastDate)
	return &v, nil
}

// Inspection conversions

const inspectionColumns = `id, vehicle, inspected_at, inspector_name, results, ai_summary`

// scanInspection reads a row selected with inspectionColumns.
func scanInspection(row pgx.Row) (*fleetcheck.InspectionRecord, error) {
	var (
		id          pgtype.UUID
		vehicleJSON []byte
		inspectedAt pgtype.Timestamptz
		inspector   string
		resultsJSON []byte
		aiSummary   pgtype.Text
	)
	if err := row.Scan(&id, &vehicleJSON, &inspectedAt, &inspector, &resultsJSON, &aiSummary); err != nil {
		return nil, err
	}

	r := &fleetcheck.InspectionRecord{
		ID:            fromPgUUID(id),
		Date:          inspectedAt.Time,
		InspectorName: inspector,
		AISummary:     fromPgText(aiSummary),
	}
	if err := json.Unmarshal(vehicleJSON, &r.Vehicle); err != nil {
		return nil, fmt.Errorf("decoding vehicle snapshot of %s: %w", r.ID, err)
	}
	if err := json.Unmarshal(resultsJSON, &r.Results); err != nil {
		return nil, fmt.Errorf("decoding results of %s: %w", r.ID, err)
	}
	return r, nil
}

// typePtr converts an optional vehicle type to an optional string parameter.
func typePtr(t *fleetcheck.VehicleType) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}
