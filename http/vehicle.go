package http

import (
	"log/slog"

	"github.com/fleetops/fleetcheck"
	"github.com/labstack/echo/v4"
)

// CreateVehicleRequest is the request payload for adding a vehicle to the roster.
type CreateVehicleRequest struct {
	FleetNumber  string `json:"fleetNumber" validate:"required,max=20"`
	LicensePlate string `json:"licensePlate" validate:"max=20"`
	Type         string `json:"type" validate:"required,vehicletype"`
	Station      string `json:"station" validate:"max=100"`
	Model        string `json:"model" validate:"max=100"`
}

// UpdateVehicleRequest is the request payload for updating a vehicle.
// Omitted fields are left unchanged.
type UpdateVehicleRequest struct {
	LicensePlate *string `json:"licensePlate" validate:"omitempty,max=20"`
	Type         *string `json:"type" validate:"omitempty,vehicletype"`
	Station      *string `json:"station" validate:"omitempty,max=100"`
	Model        *string `json:"model" validate:"omitempty,max=100"`
}

func (s *Server) handleListVehicles(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	offset, limit, err := pagination(c)
	if err != nil {
		return err
	}

	filter := fleetcheck.VehicleFilter{Offset: offset, Limit: limit}
	if v := c.QueryParam("type"); v != "" {
		t, err := fleetcheck.ParseVehicleType(v)
		if err != nil {
			return err
		}
		filter.Type = &t
	}
	if v := c.QueryParam("station"); v != "" {
		filter.Station = &v
	}

	vehicles, total, err := s.vehicleService.FindVehicles(ctx, filter)
	if err != nil {
		return err
	}

	return RespondList(c, vehicles, total, offset, limit)
}

func (s *Server) handleGetVehicle(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	fleetNumber, err := requireParam(c, "fleetNumber")
	if err != nil {
		return err
	}

	vehicle, err := s.vehicleService.FindVehicleByFleetNumber(ctx, fleetNumber)
	if err != nil {
		return err
	}

	return RespondOK(c, vehicle)
}

func (s *Server) handleCreateVehicle(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	var req CreateVehicleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	vtype, err := fleetcheck.ParseVehicleType(req.Type)
	if err != nil {
		return err
	}

	vehicle := &fleetcheck.Vehicle{
		FleetNumber:  req.FleetNumber,
		LicensePlate: req.LicensePlate,
		Type:         vtype,
		Station:      req.Station,
		Model:        req.Model,
	}
	if err := s.vehicleService.CreateVehicle(ctx, vehicle); err != nil {
		return err
	}

	s.audit(c, fleetcheck.AuditCreate, fleetcheck.AuditResourceVehicle, vehicle.FleetNumber, nil, vehicle)
	s.log(c).Info("vehicle created",
		slog.String("fleet_number", vehicle.FleetNumber),
		slog.String("vehicle_type", vehicle.Type.String()),
	)

	return RespondCreated(c, vehicle)
}

func (s *Server) handleUpdateVehicle(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	fleetNumber, err := requireParam(c, "fleetNumber")
	if err != nil {
		return err
	}

	var req UpdateVehicleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	upd := fleetcheck.VehicleUpdate{
		LicensePlate: req.LicensePlate,
		Station:      req.Station,
		Model:        req.Model,
	}
	if req.Type != nil {
		t, err := fleetcheck.ParseVehicleType(*req.Type)
		if err != nil {
			return err
		}
		upd.Type = &t
	}

	before, err := s.vehicleService.FindVehicleByFleetNumber(ctx, fleetNumber)
	if err != nil {
		return err
	}

	vehicle, err := s.vehicleService.UpdateVehicle(ctx, fleetNumber, upd)
	if err != nil {
		return err
	}

	s.audit(c, fleetcheck.AuditUpdate, fleetcheck.AuditResourceVehicle, fleetNumber, before, vehicle)
	s.log(c).Info("vehicle updated", slog.String("fleet_number", fleetNumber))

	return RespondOK(c, vehicle)
}

func (s *Server) handleDeleteVehicle(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	fleetNumber, err := requireParam(c, "fleetNumber")
	if err != nil {
		return err
	}

	before, err := s.vehicleService.FindVehicleByFleetNumber(ctx, fleetNumber)
	if err != nil {
		return err
	}

	if err := s.vehicleService.DeleteVehicle(ctx, fleetNumber); err != nil {
		return err
	}

	s.audit(c, fleetcheck.AuditDelete, fleetcheck.AuditResourceVehicle, fleetNumber, before, nil)

	s.log(c).Info("vehicle deleted", slog.String("fleet_number", fleetNumber))

	return RespondNoContent(c)
}
