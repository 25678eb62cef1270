package http

import (
	"log/slog"

	"github.com/fleetops/fleetcheck"
	"github.com/labstack/echo/v4"
)

// ChecklistItemRequest is one item of a replacement checklist.
type ChecklistItemRequest struct {
	ID       string `json:"id" validate:"required,max=50"`
	Category string `json:"category" validate:"required,max=100"`
	Label    string `json:"label" validate:"required,max=200"`
}

// ReplaceChecklistRequest is the request payload for replacing a vehicle
// type's checklist.
type ReplaceChecklistRequest struct {
	Items []ChecklistItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ChecklistResponse is one vehicle type's checklist.
type ChecklistResponse struct {
	Type  fleetcheck.VehicleType     `json:"type"`
	Items []fleetcheck.ChecklistItem `json:"items"`
}

// catalogResponse lists every checklist in vehicle type order.
func catalogResponse(catalog *fleetcheck.Catalog) []ChecklistResponse {
	types := catalog.Types()
	out := make([]ChecklistResponse, 0, len(types))
	for _, t := range types {
		items, _ := catalog.Checklist(t)
		out = append(out, ChecklistResponse{Type: t, Items: items})
	}
	return out
}

func (s *Server) handleGetCatalog(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	catalog, err := s.catalogService.FindCatalog(ctx)
	if err != nil {
		return err
	}

	return RespondOK(c, catalogResponse(catalog))
}

func (s *Server) handleGetChecklist(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	vtype, err := requireVehicleTypeParam(c, "type")
	if err != nil {
		return err
	}

	catalog, err := s.catalogService.FindCatalog(ctx)
	if err != nil {
		return err
	}

	items, err := catalog.Checklist(vtype)
	if err != nil {
		return err
	}

	return RespondOK(c, ChecklistResponse{Type: vtype, Items: items})
}

func (s *Server) handleReplaceChecklist(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	vtype, err := requireVehicleTypeParam(c, "type")
	if err != nil {
		return err
	}

	var req ReplaceChecklistRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	items := make([]fleetcheck.ChecklistItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = fleetcheck.ChecklistItem{ID: item.ID, Category: item.Category, Label: item.Label}
	}

	var previous []fleetcheck.ChecklistItem
	if current, err := s.catalogService.FindCatalog(ctx); err == nil {
		previous, _ = current.Checklist(vtype)
	}

	catalog, err := s.catalogService.ReplaceChecklist(ctx, vtype, items)
	if err != nil {
		return err
	}

	updated, err := catalog.Checklist(vtype)
	if err != nil {
		return err
	}

	s.audit(c, fleetcheck.AuditReplace, fleetcheck.AuditResourceChecklist, vtype.String(), previous, updated)
	s.log(c).Info("checklist replaced",
		slog.String("vehicle_type", vtype.String()),
		slog.Int("items", len(updated)),
	)

	return RespondOK(c, ChecklistResponse{Type: vtype, Items: updated})
}
