package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fleetops/fleetcheck"
)

const systemPrompt = `You are a maintenance planner for a public transport operator running buses and trams.
You receive the failed checklist items of a single pre-departure vehicle inspection.
Write a short maintenance summary in European Portuguese: at most three sentences,
naming the affected systems, the most urgent action first, and whether the vehicle
should be withheld from service. Do not use markdown, lists or greetings.`

// claudeService implements fleetcheck.AIService using Claude (Anthropic).
type claudeService struct {
	client      *anthropic.Client
	logger      *slog.Logger
	model       string
	maxTokens   int
	temperature float64
}

// newClaudeService creates a new Claude AI service.
func newClaudeService(logger *slog.Logger, config fleetcheck.AIConfig) *claudeService {
	client := anthropic.NewClient(
		option.WithAPIKey(config.ClaudeAPIKey),
	)

	return &claudeService{
		client:      &client,
		logger:      logger,
		model:       config.ClaudeModel,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
	}
}

// SummarizeInspection asks Claude for a maintenance summary of the record's
// failed items. A record without failures gets an empty summary and no call.
func (s *claudeService) SummarizeInspection(ctx context.Context, record *fleetcheck.InspectionRecord) (string, error) {
	failed := record.FailedResults()
	if len(failed) == 0 {
		return "", nil
	}

	s.logger.Info("summarizing inspection with Claude",
		slog.String("model", s.model),
		slog.String("fleet_number", record.Vehicle.FleetNumber),
		slog.Int("failed_items", len(failed)))

	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(s.maxTokens),
		System: []anthropic.TextBlockParam{
			{
				Text: systemPrompt,
			},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserPrompt(record))),
		},
		Temperature: anthropic.Float(s.temperature),
	})
	if err != nil {
		s.logger.Error("failed to summarize inspection with Claude",
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to summarize inspection: %w", err)
	}

	var sb strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}

	s.logger.Info("Claude summary complete",
		slog.Int("input_tokens", int(message.Usage.InputTokens)),
		slog.Int("output_tokens", int(message.Usage.OutputTokens)))

	return strings.TrimSpace(sb.String()), nil
}

// buildUserPrompt describes the vehicle and lists each failed item with its
// category and note.
func buildUserPrompt(record *fleetcheck.InspectionRecord) string {
	var sb strings.Builder

	v := record.Vehicle
	fmt.Fprintf(&sb, "Vehicle: %s %s (%s), station %s\n", v.Type, v.FleetNumber, v.Model, v.Station)
	fmt.Fprintf(&sb, "Inspected by %s on %s\n\n", record.InspectorName, record.Date.Format("2006-01-02 15:04"))
	sb.WriteString("Failed items:\n")
	for _, res := range record.FailedResults() {
		fmt.Fprintf(&sb, "- [%s] %s", res.Category, res.Label)
		if res.Note != "" {
			fmt.Fprintf(&sb, ": %s", res.Note)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
