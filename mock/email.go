package mock

import (
	"context"

	"github.com/fleetops/fleetcheck"
)

// Compile-time interface check
var _ fleetcheck.EmailService = (*EmailService)(nil)

// EmailService is a mock implementation of fleetcheck.EmailService.
type EmailService struct {
	SendMaintenanceAlertFn func(ctx context.Context, to []string, record *fleetcheck.InspectionRecord) error
	SendReportFn           func(ctx context.Context, to []string, subject string, reportURL string) error

	// Sent records every email for assertions.
	Sent []SentEmail
}

// SentEmail records details of a sent email for testing assertions.
type SentEmail struct {
	Kind     string // "alert" or "report"
	To       []string
	RecordID string
	Subject  string
	URL      string
}

func (s *EmailService) SendMaintenanceAlert(ctx context.Context, to []string, record *fleetcheck.InspectionRecord) error {
	s.Sent = append(s.Sent, SentEmail{Kind: "alert", To: to, RecordID: record.ID.String()})
	if s.SendMaintenanceAlertFn != nil {
		return s.SendMaintenanceAlertFn(ctx, to, record)
	}
	return nil
}

func (s *EmailService) SendReport(ctx context.Context, to []string, subject string, reportURL string) error {
	s.Sent = append(s.Sent, SentEmail{Kind: "report", To: to, Subject: subject, URL: reportURL})
	if s.SendReportFn != nil {
		return s.SendReportFn(ctx, to, subject, reportURL)
	}
	return nil
}
