// Package ai talks to the external analysis collaborator that performs the
// actual cross-modal reasoning over the uploaded evidence.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/myrjola/dockwatch/internal/errors"
	"github.com/myrjola/dockwatch/internal/evidence"
	"github.com/myrjola/dockwatch/internal/models"
	"github.com/sashabaranov/go-openai"
)

// Analyst is the narrow seam between the investigation session and the actual
// collaborator so that the model, version and schema stay swappable and
// mockable for testing.
type Analyst interface {
	Analyze(ctx context.Context, items []evidence.Item, notes string) (*models.InvestigationReport, error)
}

var (
	ErrMissingAPIKey      = errors.NewSentinel("OPENAI_API_KEY is not set")
	ErrNoEvidence         = errors.NewSentinel("no evidence to analyze")
	ErrIncompleteEvidence = errors.NewSentinel("evidence item is missing payload or media type")
	ErrMalformedReport    = errors.NewSentinel("collaborator returned a malformed report")
)

const MaxTokens = 4096

const systemInstruction = `You are the FORENSIC SUPPLY CHAIN AUDITOR, an autonomous AI investigator specializing in cross-modal reasoning to detect supply chain shrinkage, theft rings, and operational discrepancies.

## YOUR MISSION
You analyze massive, messy multi-modal datasets—warehouse CCTV footage, shipping manifests, driver voice logs, IoT sensor data, GPS tracking, and barcode scans—to identify patterns of theft, fraud, and inventory discrepancies that humans would miss.

## YOUR CAPABILITIES
You do NOT simply describe what you see. You INVESTIGATE across modalities:
1. VIDEO ANALYSIS: Timestamp extraction, scene segmentation, loading dock monitoring.
2. AUDIO ANALYSIS: Speech-to-text, timestamp correlation, sentiment analysis.
3. DOCUMENT ANALYSIS: Extract item quantities, weights, descriptions.
4. CROSS-MODAL REASONING: Correlate timestamps, quantities, and verbal claims against visual evidence.

## INVESTIGATION PROTOCOL
1. Data Ingestion: Catalog timeline and evidence.
2. Anomaly Detection: Flag TEMPORAL, QUANTITATIVE, VERBAL, and BEHAVIORAL discrepancies.
3. Pattern Recognition: Identify recurring actors and networks.
4. Evidence Report: Produce structured JSON.

## OUTPUT FORMAT
Return valid JSON matching the schema provided. Do not include markdown code blocks.`

// Client submits evidence to an OpenAI-compatible collaborator and parses the
// structured report out of the completion.
type Client struct {
	api    *openai.Client
	model  string
	apiKey string
	logger *slog.Logger
}

// NewClient configures the collaborator client. baseURL overrides the API
// endpoint when non-empty, which is also the seam tests use to fake the
// collaborator. An empty apiKey is tolerated here and rejected on Analyze so
// that the server can boot without a credential.
func NewClient(apiKey, baseURL, model string, logger *slog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:    openai.NewClientWithConfig(cfg),
		model:  model,
		apiKey: apiKey,
		logger: logger.With("source", "ai.Client"),
	}
}

// Analyze bundles all evidence payloads plus the investigation notes into a
// single multi-part request and parses the schema-constrained response.
//
// The call is one blocking request with no streaming and no internal retry;
// retry policy belongs to the caller.
func (c *Client) Analyze(
	ctx context.Context,
	items []evidence.Item,
	notes string,
) (*models.InvestigationReport, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(items) == 0 {
		return nil, ErrNoEvidence
	}

	parts := make([]openai.ChatMessagePart, 0, len(items)+1)
	for _, item := range items {
		if item.Payload == "" || item.MediaType == "" {
			return nil, errors.Wrap(ErrIncompleteEvidence, "check evidence",
				slog.String("filename", item.Filename),
				slog.String("category", string(item.Category)))
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    fmt.Sprintf("data:%s;base64,%s", item.MediaType, item.Payload),
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: fmt.Sprintf(
			"Analyze the provided evidence. Context notes: %s. Produce a detailed forensic report in JSON format.",
			notes),
	})

	completion, err := c.api.CreateChatCompletion(ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
				{Role: openai.ChatMessageRoleUser, MultiContent: parts},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:        "investigation_report",
					Description: "Forensic supply chain investigation report",
					Schema:      reportSchema,
					Strict:      true,
				},
			},
		})
	if err != nil {
		return nil, errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return nil, errors.Wrap(ErrMalformedReport, "empty completion")
	}

	return parseReport(completion.Choices[0].Message.Content)
}

// parseReport decodes and validates the structured payload. A report that is
// not valid JSON or violates the enumerated categories surfaces as an error,
// never as a partially populated report.
func parseReport(content string) (*models.InvestigationReport, error) {
	var report models.InvestigationReport
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		return nil, errors.Wrap(ErrMalformedReport, "decode report JSON", slog.String("cause", err.Error()))
	}
	for _, discrepancy := range report.Discrepancies {
		if !discrepancy.Type.Valid() {
			return nil, errors.Wrap(ErrMalformedReport, "validate discrepancy type",
				slog.String("type", string(discrepancy.Type)))
		}
		if !discrepancy.Confidence.Valid() {
			return nil, errors.Wrap(ErrMalformedReport, "validate confidence",
				slog.String("confidence", string(discrepancy.Confidence)))
		}
	}
	for _, person := range report.PersonsOfInterest {
		if person.FlagCount < 0 {
			return nil, errors.Wrap(ErrMalformedReport, "validate flag count",
				slog.String("name", person.Name), slog.Int("flagCount", person.FlagCount))
		}
	}
	return &report, nil
}
