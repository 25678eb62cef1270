package fleetcheck

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of a checklist item or of a whole inspection.
type Status string

const (
	StatusOK  Status = "OK"
	StatusNOK Status = "NOK"
)

// IsValid returns true if the status is a recognized value.
func (s Status) IsValid() bool {
	return s == StatusOK || s == StatusNOK
}

// InspectionResult is the outcome of one checklist item. Category and Label
// are copied from the catalog when the record is created so historical records
// do not change when the catalog does.
type InspectionResult struct {
	ItemID   string `json:"itemId"`
	Category string `json:"category"`
	Label    string `json:"label"`
	Status   Status `json:"status"`
	Note     string `json:"note,omitempty"`
}

// InspectionRecord is one physical inspection event. Records are append-only.
type InspectionRecord struct {
	ID            uuid.UUID          `json:"id"`
	Vehicle       Vehicle            `json:"vehicle"`
	Date          time.Time          `json:"date"`
	InspectorName string             `json:"inspectorName"`
	Results       []InspectionResult `json:"results"`
	AISummary     string             `json:"aiSummary,omitempty"`
}

// Classify derives the overall status of a record: NOK iff at least one result
// is NOK. A record without results is OK. This is the only definition of an
// anomaly; callers must not re-derive it.
func Classify(r *InspectionRecord) Status {
	nok := false
	for _, res := range r.Results {
		nok = nok || res.Status == StatusNOK
	}
	if nok {
		return StatusNOK
	}
	return StatusOK
}

// Status returns Classify(r).
func (r *InspectionRecord) Status() Status {
	return Classify(r)
}

// HasAnomaly returns true if the record classifies as NOK.
func (r *InspectionRecord) HasAnomaly() bool {
	return Classify(r) == StatusNOK
}

// FailedResults returns the NOK results of r in checklist order.
func (r *InspectionRecord) FailedResults() []InspectionResult {
	var failed []InspectionResult
	for _, res := range r.Results {
		if res.Status == StatusNOK {
			failed = append(failed, res)
		}
	}
	return failed
}

// ResultEntry is an inspector's answer for one checklist item, before the
// catalog's category and label are attached.
type ResultEntry struct {
	ItemID string
	Status Status
	Note   string
}

// CaptureResults attaches the catalog category and label to each entry, in
// checklist order. Entries for item ids not in items are kept with an empty
// category so ValidateRecord can report them.
func CaptureResults(items []ChecklistItem, entries []ResultEntry) []InspectionResult {
	byID := make(map[string]ResultEntry, len(entries))
	var unknown []ResultEntry
	known := make(map[string]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}
	for _, e := range entries {
		if !known[e.ItemID] {
			unknown = append(unknown, e)
			continue
		}
		if _, dup := byID[e.ItemID]; dup {
			// Keep the duplicate so validation can reject it.
			unknown = append(unknown, e)
			continue
		}
		byID[e.ItemID] = e
	}

	results := make([]InspectionResult, 0, len(entries))
	for _, item := range items {
		e, ok := byID[item.ID]
		if !ok {
			continue
		}
		results = append(results, InspectionResult{
			ItemID:   item.ID,
			Category: item.Category,
			Label:    item.Label,
			Status:   e.Status,
			Note:     strings.TrimSpace(e.Note),
		})
	}
	for _, e := range unknown {
		results = append(results, InspectionResult{
			ItemID: e.ItemID,
			Status: e.Status,
			Note:   strings.TrimSpace(e.Note),
		})
	}
	return results
}

// ValidateRecord checks a record against the checklist of its vehicle type:
// exactly one result per item, no unknown or duplicate item ids, and a valid
// status on every result. It also requires an inspector name and a date.
//
// Returns EMALFORMED with per-item fields when the results do not match, or
// EINVALID for missing record-level fields.
func ValidateRecord(r *InspectionRecord, items []ChecklistItem) error {
	fields := make(map[string]string)
	if strings.TrimSpace(r.InspectorName) == "" {
		fields["inspectorName"] = "is required"
	}
	if r.Date.IsZero() {
		fields["date"] = "is required"
	}
	if r.Vehicle.FleetNumber == "" {
		fields["vehicle"] = "is required"
	}
	if len(fields) > 0 {
		return ErrorWithFields(fields)
	}

	if len(r.Results) == 0 {
		return MalformedRecord(map[string]string{"results": "at least one result is required"})
	}

	required := make(map[string]bool, len(items))
	for _, item := range items {
		required[item.ID] = true
	}

	seen := make(map[string]bool, len(r.Results))
	for _, res := range r.Results {
		key := res.ItemID
		if key == "" {
			key = "results"
		}
		switch {
		case !required[res.ItemID]:
			fields[key] = "unknown checklist item"
		case seen[res.ItemID]:
			fields[key] = "duplicate result"
		case !res.Status.IsValid():
			fields[key] = "status must be OK or NOK"
		}
		seen[res.ItemID] = true
	}
	for _, item := range items {
		if !seen[item.ID] {
			fields[item.ID] = "missing result"
		}
	}

	if len(fields) > 0 {
		return MalformedRecord(fields)
	}
	return nil
}

// InspectionService defines operations for the inspection history.
// Records are append-only: there is no update or delete.
type InspectionService interface {
	// FindInspectionByID retrieves a record by its ID.
	// Returns ENOTFOUND if the record does not exist.
	FindInspectionByID(ctx context.Context, id uuid.UUID) (*InspectionRecord, error)

	// FindInspections retrieves records matching the filter, newest first.
	// Returns the matching records and total count before pagination.
	FindInspections(ctx context.Context, filter InspectionFilter) ([]*InspectionRecord, int, error)

	// CreateInspection persists a validated record and updates the
	// LastInspectionDate of its vehicle in the roster.
	// Returns ENOTFOUND if the vehicle is not in the roster.
	CreateInspection(ctx context.Context, record *InspectionRecord) error
}

// InspectionFilter defines criteria for filtering inspection records.
type InspectionFilter struct {
	ID          *uuid.UUID
	FleetNumber *string

	// From and To bound the inspection timestamp (From inclusive, To
	// exclusive). See DateRange.Window.
	From *time.Time
	To   *time.Time

	// Pagination
	Offset int
	Limit  int
}
