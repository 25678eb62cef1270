package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/fleetops/fleetcheck"
	"github.com/fleetops/fleetcheck/internal/middleware"
	"github.com/labstack/echo/v4"
)

// summaryTimeout bounds the AI summary call made while recording an inspection.
const summaryTimeout = 20 * time.Second

// ResultRequest is an inspector's answer for one checklist item.
type ResultRequest struct {
	ItemID string `json:"itemId"`
	Status string `json:"status"`
	Note   string `json:"note" validate:"max=500"`
}

// CreateInspectionRequest is the request payload for recording an inspection.
// Item ids and statuses are checked against the vehicle type's checklist
// rather than here, so that mismatches are reported per item.
type CreateInspectionRequest struct {
	FleetNumber   string          `json:"fleetNumber" validate:"required,max=20"`
	InspectorName string          `json:"inspectorName" validate:"required,max=100"`
	Date          *time.Time      `json:"date"`
	Results       []ResultRequest `json:"results" validate:"dive"`
}

// ListInspectionsQuery holds the history filters.
type ListInspectionsQuery struct {
	Start       string `json:"start" query:"start"`
	End         string `json:"end" query:"end"`
	FleetNumber string `json:"fleetNumber" query:"fleetNumber" validate:"max=20"`
	Status      string `json:"status" query:"status" validate:"omitempty,status"`
}

// InspectionResponse is a record with its derived overall status.
type InspectionResponse struct {
	*fleetcheck.InspectionRecord
	Status fleetcheck.Status `json:"status"`
}

func newInspectionResponse(r *fleetcheck.InspectionRecord) InspectionResponse {
	return InspectionResponse{InspectionRecord: r, Status: fleetcheck.Classify(r)}
}

func (s *Server) handleCreateInspection(c echo.Context) error {
	var req CreateInspectionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := fleetcheck.NewContextWithInspector(c.Request().Context(), req.InspectorName)
	logger := s.log(c).With(slog.String("fleet_number", req.FleetNumber))

	record, err := s.buildInspection(ctx, &req)
	if err != nil {
		return err
	}

	if record.HasAnomaly() && s.aiService != nil {
		s.summarize(ctx, logger, record)
	}

	storeCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	if err := s.inspectionService.CreateInspection(storeCtx, record); err != nil {
		return err
	}

	status := record.Status()
	failed := record.FailedResults()
	categories := make([]string, len(failed))
	for i, res := range failed {
		categories[i] = res.Category
	}
	middleware.RecordInspection(record.Vehicle.Type.String(), string(status), categories)

	logger.Info("inspection recorded",
		slog.String("inspection_id", record.ID.String()),
		slog.String("status", string(status)),
		slog.Int("failed_items", len(failed)),
	)

	if status == fleetcheck.StatusNOK {
		s.sendAlert(storeCtx, logger, record)
	}

	return RespondCreated(c, newInspectionResponse(record))
}

// buildInspection resolves the vehicle and its checklist and returns a
// validated record ready to store.
func (s *Server) buildInspection(ctx context.Context, req *CreateInspectionRequest) (*fleetcheck.InspectionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	vehicle, err := s.vehicleService.FindVehicleByFleetNumber(ctx, req.FleetNumber)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalogService.FindCatalog(ctx)
	if err != nil {
		return nil, err
	}
	items, err := catalog.Checklist(vehicle.Type)
	if err != nil {
		return nil, err
	}

	entries := make([]fleetcheck.ResultEntry, len(req.Results))
	for i, res := range req.Results {
		entries[i] = fleetcheck.ResultEntry{
			ItemID: res.ItemID,
			Status: fleetcheck.Status(res.Status),
			Note:   res.Note,
		}
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	record := &fleetcheck.InspectionRecord{
		Vehicle:       *vehicle,
		Date:          date,
		InspectorName: req.InspectorName,
		Results:       fleetcheck.CaptureResults(items, entries),
	}
	if err := fleetcheck.ValidateRecord(record, items); err != nil {
		return nil, err
	}

	return record, nil
}

// summarize attaches an AI summary to record. Failures are logged and the
// record is stored without one.
func (s *Server) summarize(ctx context.Context, logger *slog.Logger, record *fleetcheck.InspectionRecord) {
	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	summary, err := s.aiService.SummarizeInspection(ctx, record)
	if err != nil {
		logger.Warn("inspection summary failed",
			slog.String("inspector", fleetcheck.InspectorFromContext(ctx)),
			slog.String("error", err.Error()),
		)
		return
	}
	record.AISummary = summary
}

// sendAlert notifies AlertRecipients of a record with failed items. The
// record is already stored, so failures are only logged.
func (s *Server) sendAlert(ctx context.Context, logger *slog.Logger, record *fleetcheck.InspectionRecord) {
	if s.emailService == nil || len(s.AlertRecipients) == 0 {
		return
	}
	if err := s.emailService.SendMaintenanceAlert(ctx, s.AlertRecipients, record); err != nil {
		logger.Error("maintenance alert failed",
			slog.String("inspection_id", record.ID.String()),
			slog.String("inspector", fleetcheck.InspectorFromContext(ctx)),
			slog.String("request_id", fleetcheck.RequestIDFromContext(ctx)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Server) handleGetInspection(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	record, err := s.inspectionService.FindInspectionByID(ctx, id)
	if err != nil {
		return err
	}

	return RespondOK(c, newInspectionResponse(record))
}

func (s *Server) handleListInspections(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	var q ListInspectionsQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	offset, limit, err := pagination(c)
	if err != nil {
		return err
	}
	r, err := s.parseDateRange(q.Start, q.End)
	if err != nil {
		return err
	}

	var fleetNumber *string
	if q.FleetNumber != "" {
		fleetNumber = &q.FleetNumber
	}

	records, err := s.loadInspections(ctx, fleetNumber, r)
	if err != nil {
		return err
	}

	out := make([]InspectionResponse, 0, len(records))
	for _, rec := range records {
		resp := newInspectionResponse(rec)
		if q.Status != "" && string(resp.Status) != q.Status {
			continue
		}
		out = append(out, resp)
	}

	total := len(out)
	start := min(offset, total)
	end := min(start+limit, total)

	return RespondList(c, out[start:end], total, offset, limit)
}
