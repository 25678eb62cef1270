package http

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/fleetops/fleetcheck"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// defaultPageSize applies when a list request has no limit.
	defaultPageSize = 100

	// maxPageSize caps the limit of a list request.
	maxPageSize = 1000
)

// withTimeout creates a context with a timeout for handler operations.
func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), DefaultTimeout)
}

// parseUUID parses a UUID from a string, returning a domain error if invalid.
func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fleetcheck.Invalid("Invalid ID format")
	}
	return id, nil
}

// requireParam extracts a required route parameter, returning error if empty.
func requireParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if value == "" {
		return "", fleetcheck.Invalid("%s is required", name)
	}
	return value, nil
}

// requireUUIDParam extracts and parses a required UUID route parameter.
func requireUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	value, err := requireParam(c, name)
	if err != nil {
		return uuid.UUID{}, err
	}
	return parseUUID(value)
}

// requireVehicleTypeParam extracts and parses a vehicle type route parameter.
func requireVehicleTypeParam(c echo.Context, name string) (fleetcheck.VehicleType, error) {
	value, err := requireParam(c, name)
	if err != nil {
		return "", err
	}
	return fleetcheck.ParseVehicleType(value)
}

// bind binds the request to a struct and validates it.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return fleetcheck.Invalid("Invalid request body")
	}
	if err := c.Validate(v); err != nil {
		return err
	}
	return nil
}

// pagination reads ?offset= and ?limit= with defaults and bounds.
func pagination(c echo.Context) (offset, limit int, err error) {
	limit = defaultPageSize
	if v := c.QueryParam("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, fleetcheck.ErrorWithFields(map[string]string{"offset": "must be a non-negative integer"})
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			return 0, 0, fleetcheck.ErrorWithFields(map[string]string{"limit": "must be a positive integer"})
		}
		limit = min(limit, maxPageSize)
	}
	return offset, limit, nil
}

// dateRange reads ?start= and ?end= as calendar days in the server's location.
func (s *Server) dateRange(c echo.Context) (fleetcheck.DateRange, error) {
	return s.parseDateRange(c.QueryParam("start"), c.QueryParam("end"))
}

func (s *Server) parseDateRange(start, end string) (fleetcheck.DateRange, error) {
	r, err := fleetcheck.ParseDateRange(start, end)
	if err != nil {
		return fleetcheck.DateRange{}, err
	}
	r.Location = s.Location
	return r, nil
}

// loadInspections returns every record for fleetNumber (all vehicles when
// nil), newest first, restricted to r. The store narrows by r.Window and
// FilterByRange makes the calendar-day cut.
func (s *Server) loadInspections(ctx context.Context, fleetNumber *string, r fleetcheck.DateRange) ([]*fleetcheck.InspectionRecord, error) {
	filter := fleetcheck.InspectionFilter{FleetNumber: fleetNumber}
	filter.From, filter.To = r.Window()

	records, _, err := s.inspectionService.FindInspections(ctx, filter)
	if err != nil {
		return nil, err
	}
	return fleetcheck.FilterByRange(records, r), nil
}

// log returns the request-scoped logger.
func (s *Server) log(c echo.Context) *slog.Logger {
	return s.getRequestLogger(c)
}
