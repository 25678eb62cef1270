// Package email provides implementations of fleetcheck.EmailService.
package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/fleetops/fleetcheck"
	"github.com/keighl/postmark"
)

// NewEmailService creates an email service based on the provider configuration.
func NewEmailService(logger *slog.Logger, config fleetcheck.EmailConfig) fleetcheck.EmailService {
	switch config.Provider {
	case "postmark":
		return newPostmarkEmailService(logger, config)
	default:
		return newMockEmailService(logger, config)
	}
}

// message is a rendered email ready for any provider.
type message struct {
	Subject  string
	TextBody string
	HTMLBody string
	Tag      string
}

// maintenanceAlert renders the alert sent when an inspection has failed items.
func maintenanceAlert(record *fleetcheck.InspectionRecord) message {
	v := record.Vehicle
	failed := record.FailedResults()
	date := record.Date.Format("2006-01-02 15:04")

	var text, body strings.Builder
	fmt.Fprintf(&text, "Inspection of %s %s (%s) by %s on %s found %d failed item(s):\n\n",
		v.Type, v.FleetNumber, v.Station, record.InspectorName, date, len(failed))
	fmt.Fprintf(&body, "<h2>%s %s: %d failed item(s)</h2>\n<p>Inspected by %s on %s at %s.</p>\n<ul>\n",
		html.EscapeString(v.Type.String()), html.EscapeString(v.FleetNumber), len(failed),
		html.EscapeString(record.InspectorName), date, html.EscapeString(v.Station))

	for _, res := range failed {
		fmt.Fprintf(&text, "- [%s] %s", res.Category, res.Label)
		fmt.Fprintf(&body, "<li><strong>%s</strong>: %s", html.EscapeString(res.Category), html.EscapeString(res.Label))
		if res.Note != "" {
			fmt.Fprintf(&text, " (%s)", res.Note)
			fmt.Fprintf(&body, " <em>%s</em>", html.EscapeString(res.Note))
		}
		text.WriteString("\n")
		body.WriteString("</li>\n")
	}
	body.WriteString("</ul>\n")

	if record.AISummary != "" {
		fmt.Fprintf(&text, "\nSummary: %s\n", record.AISummary)
		fmt.Fprintf(&body, "<p>%s</p>\n", html.EscapeString(record.AISummary))
	}
	fmt.Fprintf(&text, "\nRecord: %s\n", record.ID)

	return message{
		Subject:  fmt.Sprintf("[NOK] %s %s needs maintenance", v.Type, v.FleetNumber),
		TextBody: text.String(),
		HTMLBody: body.String(),
		Tag:      "maintenance-alert",
	}
}

// reportLink renders the email pointing at a generated report.
func reportLink(subject, reportURL string) message {
	return message{
		Subject:  subject,
		TextBody: fmt.Sprintf("A new inspection report is available: %s", reportURL),
		HTMLBody: fmt.Sprintf(`
			<h2>%s</h2>
			<p>A new inspection report is available:</p>
			<p><a href="%s">Download report</a></p>
		`, html.EscapeString(subject), html.EscapeString(reportURL)),
		Tag: "inspection-report",
	}
}

// mockEmailService is a mock implementation that logs instead of sending emails.
type mockEmailService struct {
	logger *slog.Logger
	config fleetcheck.EmailConfig
}

// newMockEmailService creates a new mock email service.
func newMockEmailService(logger *slog.Logger, config fleetcheck.EmailConfig) *mockEmailService {
	return &mockEmailService{
		logger: logger,
		config: config,
	}
}

func (s *mockEmailService) SendMaintenanceAlert(ctx context.Context, to []string, record *fleetcheck.InspectionRecord) error {
	return s.log("maintenance alert", to, maintenanceAlert(record))
}

func (s *mockEmailService) SendReport(ctx context.Context, to []string, subject, reportURL string) error {
	return s.log("report", to, reportLink(subject, reportURL))
}

func (s *mockEmailService) log(kind string, to []string, msg message) error {
	s.logger.Info("MOCK EMAIL: "+kind,
		slog.String("to", strings.Join(to, ", ")),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.TextBody),
	)
	return nil
}

// postmarkEmailService sends emails via Postmark.
type postmarkEmailService struct {
	client *postmark.Client
	logger *slog.Logger
	config fleetcheck.EmailConfig
}

// newPostmarkEmailService creates a new Postmark email service.
func newPostmarkEmailService(logger *slog.Logger, config fleetcheck.EmailConfig) *postmarkEmailService {
	client := postmark.NewClient(config.PostmarkServerToken, config.PostmarkAccountToken)
	return &postmarkEmailService{
		client: client,
		logger: logger,
		config: config,
	}
}

func (s *postmarkEmailService) SendMaintenanceAlert(ctx context.Context, to []string, record *fleetcheck.InspectionRecord) error {
	return s.send(ctx, to, maintenanceAlert(record))
}

func (s *postmarkEmailService) SendReport(ctx context.Context, to []string, subject, reportURL string) error {
	return s.send(ctx, to, reportLink(subject, reportURL))
}

func (s *postmarkEmailService) send(ctx context.Context, to []string, msg message) error {
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	recipients := strings.Join(to, ", ")
	_, err := s.client.SendEmail(postmark.Email{
		From:       fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:         recipients,
		Subject:    msg.Subject,
		TextBody:   msg.TextBody,
		HtmlBody:   msg.HTMLBody,
		Tag:        msg.Tag,
		TrackOpens: true,
	})
	if err != nil {
		s.logger.Error("failed to send email via Postmark",
			slog.String("tag", msg.Tag),
			slog.String("to", recipients),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send %s email: %w", msg.Tag, err)
	}

	s.logger.Info("email sent via Postmark",
		slog.String("tag", msg.Tag),
		slog.String("to", recipients),
	)
	return nil
}
