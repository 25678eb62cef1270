package fleetcheck

import (
	"context"
	"strings"
)

// VehicleType determines which checklist applies to a vehicle.
type VehicleType string

const (
	VehicleTypeBus  VehicleType = "BUS"
	VehicleTypeTram VehicleType = "TRAM"
)

// VehicleTypes lists every supported vehicle type. A catalog must map each of
// them to a non-empty checklist.
var VehicleTypes = []VehicleType{VehicleTypeBus, VehicleTypeTram}

// IsValid returns true if the type is a recognized value.
func (t VehicleType) IsValid() bool {
	switch t {
	case VehicleTypeBus, VehicleTypeTram:
		return true
	}
	return false
}

// String returns the string representation of the type.
func (t VehicleType) String() string {
	return string(t)
}

// ParseVehicleType parses a vehicle type, ignoring case and surrounding space.
func ParseVehicleType(s string) (VehicleType, error) {
	t := VehicleType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", Invalid("Unknown vehicle type %q", s)
	}
	return t, nil
}

// Vehicle is a member of the fleet roster. FleetNumber is its identity.
type Vehicle struct {
	FleetNumber  string      `json:"fleetNumber"`
	LicensePlate string      `json:"licensePlate"`
	Type         VehicleType `json:"type"`
	Station      string      `json:"station"`
	Model        string      `json:"model"`

	// LastInspectionDate is YYYY-MM-DD of the most recent inspection record,
	// or empty if the vehicle was never inspected. Maintained by the write
	// path when a record is created.
	LastInspectionDate string `json:"lastInspectionDate"`
}

// VehicleService defines operations for managing the fleet roster.
type VehicleService interface {
	// FindVehicleByFleetNumber retrieves a vehicle by its fleet number.
	// Returns ENOTFOUND if the vehicle does not exist.
	FindVehicleByFleetNumber(ctx context.Context, fleetNumber string) (*Vehicle, error)

	// FindVehicles retrieves vehicles matching the filter criteria.
	// Returns the matching vehicles and total count.
	FindVehicles(ctx context.Context, filter VehicleFilter) ([]*Vehicle, int, error)

	// CreateVehicle adds a vehicle to the roster.
	// Returns ECONFLICT if the fleet number is already in use.
	CreateVehicle(ctx context.Context, vehicle *Vehicle) error

	// UpdateVehicle updates an existing vehicle.
	// Returns ENOTFOUND if the vehicle does not exist.
	UpdateVehicle(ctx context.Context, fleetNumber string, upd VehicleUpdate) (*Vehicle, error)

	// DeleteVehicle removes a vehicle from the roster. Inspection records keep
	// their own snapshot of the vehicle.
	// Returns ENOTFOUND if the vehicle does not exist.
	DeleteVehicle(ctx context.Context, fleetNumber string) error
}

// VehicleFilter defines criteria for filtering vehicles.
type VehicleFilter struct {
	Type    *VehicleType
	Station *string

	// Pagination
	Offset int
	Limit  int
}

// VehicleUpdate defines fields that can be updated on a vehicle.
type VehicleUpdate struct {
	LicensePlate *string
	Type         *VehicleType
	Station      *string
	Model        *string
}

// DefaultVehicles returns the roster the application is seeded with on first start.
func DefaultVehicles() []*Vehicle {
	return []*Vehicle{
		{FleetNumber: "2401", LicensePlate: "AB-12-CD", Type: VehicleTypeBus, Station: "Miraflores", Model: "MAN Lion's City"},
		{FleetNumber: "2402", LicensePlate: "XY-99-ZZ", Type: VehicleTypeBus, Station: "Musgueira", Model: "Mercedes Citaro"},
		{FleetNumber: "505", LicensePlate: "EL-05-05", Type: VehicleTypeTram, Station: "Santo Amaro", Model: "Remodelado"},
		{FleetNumber: "2983", LicensePlate: "CC-88-PP", Type: VehicleTypeBus, Station: "Pontinha", Model: "Volvo B7R"},
	}
}
