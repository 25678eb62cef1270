package fleetcheck

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Audit actions.
const (
	AuditCreate  = "create"
	AuditUpdate  = "update"
	AuditDelete  = "delete"
	AuditReplace = "replace"
)

// Audited resource types.
const (
	AuditResourceVehicle   = "vehicle"
	AuditResourceChecklist = "checklist"
	AuditResourceReport    = "report"
)

// AuditEntry records one change to the roster, the checklist catalog or the
// stored reports.
// Inspection records are not audited; they are append-only already.
type AuditEntry struct {
	ID           uuid.UUID `json:"id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`

	// Actor is the operator name sent with the request, if any. It is not
	// authenticated.
	Actor string `json:"actor,omitempty"`

	OldValues json.RawMessage `json:"oldValues,omitempty"`
	NewValues json.RawMessage `json:"newValues,omitempty"`

	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	RequestID string    `json:"requestId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuditService stores the audit trail. Entries are append-only.
type AuditService interface {
	// RecordAudit appends an entry, assigning its ID and CreatedAt when unset.
	RecordAudit(ctx context.Context, entry *AuditEntry) error

	// FindAuditEntries retrieves entries matching the filter, newest first.
	// Returns the matching entries and total count before pagination.
	FindAuditEntries(ctx context.Context, filter AuditFilter) ([]*AuditEntry, int, error)
}

// AuditFilter defines criteria for filtering audit entries.
type AuditFilter struct {
	Action       *string
	ResourceType *string
	ResourceID   *string

	// Pagination
	Offset int
	Limit  int
}
