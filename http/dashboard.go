package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fleetops/fleetcheck"
	"github.com/fleetops/fleetcheck/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// Conditional request headers for the dashboard. echo does not define them.
const (
	HeaderETag        = "ETag"
	HeaderIfNoneMatch = "If-None-Match"
)

// DashboardResponse is the fleet overview for a date range.
type DashboardResponse struct {
	*fleetcheck.FleetStats

	// Categories is CategoryIssueCounts ordered for a bar chart.
	Categories []fleetcheck.CategoryCount `json:"categories"`
	PassRate   float64                    `json:"passRate"`

	// FleetSize is the number of vehicles in the roster.
	FleetSize int `json:"fleetSize"`

	// NotInspected lists fleet numbers with no record in the range.
	NotInspected []string `json:"notInspected"`
}

func (s *Server) handleDashboard(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	r, err := s.dateRange(c)
	if err != nil {
		return err
	}
	limit := s.AlertLimit
	if v := c.QueryParam("alerts"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 100 {
			return fleetcheck.ErrorWithFields(map[string]string{"alerts": "must be an integer between 1 and 100"})
		}
	}

	var (
		records  []*fleetcheck.InspectionRecord
		vehicles []*fleetcheck.Vehicle
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.loadInspections(gctx, nil, r)
		return err
	})
	g.Go(func() error {
		var err error
		vehicles, _, err = s.vehicleService.FindVehicles(gctx, fleetcheck.VehicleFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	stats := fleetcheck.Aggregate(records, fleetcheck.WithAlertLimit(limit))

	inspected := make(map[string]bool, len(records))
	for _, rec := range records {
		inspected[rec.Vehicle.FleetNumber] = true
	}
	notInspected := []string{}
	for _, v := range vehicles {
		if !inspected[v.FleetNumber] {
			notInspected = append(notInspected, v.FleetNumber)
		}
	}

	body, err := json.Marshal(DashboardResponse{
		FleetStats:   stats,
		Categories:   stats.Categories(),
		PassRate:     stats.PassRate(),
		FleetSize:    len(vehicles),
		NotInspected: notInspected,
	})
	if err != nil {
		return fleetcheck.Internal("Failed to encode dashboard", err)
	}

	middleware.RecordReport("dashboard")

	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	c.Response().Header().Set(HeaderETag, etag)
	c.Response().Header().Set("Cache-Control", "no-cache")
	if c.Request().Header.Get(HeaderIfNoneMatch) == etag {
		return c.NoContent(http.StatusNotModified)
	}

	return c.JSONBlob(http.StatusOK, body)
}
