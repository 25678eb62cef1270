package http

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/fleetops/fleetcheck"
	"github.com/labstack/echo/v4"
)

// HeaderOperator names the person making a roster or checklist change. The
// value is recorded as sent.
const HeaderOperator = "X-Operator"

// ListAuditQuery holds the audit log filters.
type ListAuditQuery struct {
	Action       string `query:"action" validate:"omitempty,oneof=create update delete replace"`
	ResourceType string `query:"resourceType" validate:"omitempty,oneof=vehicle checklist report"`
	ResourceID   string `query:"resourceId" validate:"max=200"`
}

// audit appends an entry for a change that has already been applied.
// Failures are logged; the change itself stands.
func (s *Server) audit(c echo.Context, action, resourceType, resourceID string, oldValue, newValue any) {
	if s.auditService == nil {
		return
	}

	logger := s.log(c)
	entry := &fleetcheck.AuditEntry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Actor:        c.Request().Header.Get(HeaderOperator),
		OldValues:    marshalAuditValue(logger, oldValue),
		NewValues:    marshalAuditValue(logger, newValue),
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    fleetcheck.RequestIDFromContext(c.Request().Context()),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), DefaultTimeout)
	defer cancel()

	if err := s.auditService.RecordAudit(ctx, entry); err != nil {
		logger.Error("failed to record audit entry",
			slog.String("action", action),
			slog.String("resource_type", resourceType),
			slog.String("resource_id", resourceID),
			slog.String("error", err.Error()),
		)
	}
}

func marshalAuditValue(logger *slog.Logger, v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("audit value not encodable", slog.String("error", err.Error()))
		return nil
	}
	return data
}

func (s *Server) handleListAudit(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	if s.auditService == nil {
		return fleetcheck.NotFound("Audit log is not enabled")
	}

	var q ListAuditQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	offset, limit, err := pagination(c)
	if err != nil {
		return err
	}

	filter := fleetcheck.AuditFilter{Offset: offset, Limit: limit}
	if q.Action != "" {
		filter.Action = &q.Action
	}
	if q.ResourceType != "" {
		filter.ResourceType = &q.ResourceType
	}
	if q.ResourceID != "" {
		filter.ResourceID = &q.ResourceID
	}

	entries, total, err := s.auditService.FindAuditEntries(ctx, filter)
	if err != nil {
		return err
	}

	return RespondList(c, entries, total, offset, limit)
}
