// Package mock provides function-field implementations of the fleetcheck
// service interfaces for tests.
package mock

import (
	"context"

	"github.com/fleetops/fleetcheck"
)

// Compile-time interface check
var _ fleetcheck.VehicleService = (*VehicleService)(nil)

// VehicleService is a mock implementation of fleetcheck.VehicleService.
type VehicleService struct {
	FindVehicleByFleetNumberFn func(ctx context.Context, fleetNumber string) (*fleetcheck.Vehicle, error)
	FindVehiclesFn             func(ctx context.Context, filter fleetcheck.VehicleFilter) ([]*fleetcheck.Vehicle, int, error)
	CreateVehicleFn            func(ctx context.Context, vehicle *fleetcheck.Vehicle) error
	UpdateVehicleFn            func(ctx context.Context, fleetNumber string, upd fleetcheck.VehicleUpdate) (*fleetcheck.Vehicle, error)
	DeleteVehicleFn            func(ctx context.Context, fleetNumber string) error
}

func (s *VehicleService) FindVehicleByFleetNumber(ctx context.Context, fleetNumber string) (*fleetcheck.Vehicle, error) {
	if s.FindVehicleByFleetNumberFn != nil {
		return s.FindVehicleByFleetNumberFn(ctx, fleetNumber)
	}
	return nil, fleetcheck.NotFound("Vehicle %s not found", fleetNumber)
}

func (s *VehicleService) FindVehicles(ctx context.Context, filter fleetcheck.VehicleFilter) ([]*fleetcheck.Vehicle, int, error) {
	if s.FindVehiclesFn != nil {
		return s.FindVehiclesFn(ctx, filter)
	}
	return []*fleetcheck.Vehicle{}, 0, nil
}

func (s *VehicleService) CreateVehicle(ctx context.Context, vehicle *fleetcheck.Vehicle) error {
	if s.CreateVehicleFn != nil {
		return s.CreateVehicleFn(ctx, vehicle)
	}
	return nil
}

func (s *VehicleService) UpdateVehicle(ctx context.Context, fleetNumber string, upd fleetcheck.VehicleUpdate) (*fleetcheck.Vehicle, error) {
	if s.UpdateVehicleFn != nil {
		return s.UpdateVehicleFn(ctx, fleetNumber, upd)
	}
	return nil, fleetcheck.NotFound("Vehicle %s not found", fleetNumber)
}

func (s *VehicleService) DeleteVehicle(ctx context.Context, fleetNumber string) error {
	if s.DeleteVehicleFn != nil {
		return s.DeleteVehicleFn(ctx, fleetNumber)
	}
	return nil
}
