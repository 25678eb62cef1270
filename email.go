package fleetcheck

import "context"

// EmailService defines operations for sending emails.
type EmailService interface {
	// SendMaintenanceAlert notifies the maintenance team about an inspection
	// with failed items.
	SendMaintenanceAlert(ctx context.Context, to []string, record *InspectionRecord) error

	// SendReport sends a link to a generated report.
	SendReport(ctx context.Context, to []string, subject string, reportURL string) error
}

// EmailConfig holds configuration for email services.
type EmailConfig struct {
	// Provider is the email provider ("mock" or "postmark").
	Provider string

	// FromAddress is the sender email address.
	FromAddress string

	// FromName is the sender display name.
	FromName string

	// Postmark-specific configuration
	PostmarkServerToken  string
	PostmarkAccountToken string
}
