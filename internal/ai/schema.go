package ai

import (
	"github.com/sashabaranov/go-openai/jsonschema"
)

// reportSchema constrains the collaborator's response to the
// models.InvestigationReport shape, including the enumerated discrepancy and
// confidence categories.
var reportSchema = &jsonschema.Definition{ //nolint:gochecknoglobals // schema literal
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"investigation_id": {Type: jsonschema.String},
		"summary":          {Type: jsonschema.String},
		"discrepancies_found": {
			Type:  jsonschema.Array,
			Items: discrepancySchema(),
		},
		"persons_of_interest": {
			Type:  jsonschema.Array,
			Items: personSchema(),
		},
		"recommended_actions": {
			Type:  jsonschema.Array,
			Items: &jsonschema.Definition{Type: jsonschema.String},
		},
		"shrinkage_estimate_usd": {Type: jsonschema.String},
	},
	Required: []string{
		"investigation_id",
		"summary",
		"discrepancies_found",
		"persons_of_interest",
		"recommended_actions",
		"shrinkage_estimate_usd",
	},
	AdditionalProperties: false,
}

func discrepancySchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"type": {
				Type: jsonschema.String,
				Enum: []string{"TEMPORAL_MISMATCH", "QUANTITY_VARIANCE", "VERBAL_CONTRADICTION", "BEHAVIORAL_ANOMALY"},
			},
			"description": {Type: jsonschema.String},
			"evidence": {
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"video": {
						Type: jsonschema.Object,
						Properties: map[string]jsonschema.Definition{
							"timestamp":   {Type: jsonschema.String},
							"observation": {Type: jsonschema.String},
						},
					},
					"audio": {
						Type: jsonschema.Object,
						Properties: map[string]jsonschema.Definition{
							"timestamp":     {Type: jsonschema.String},
							"transcription": {Type: jsonschema.String},
						},
					},
					"document": {
						Type: jsonschema.Object,
						Properties: map[string]jsonschema.Definition{
							"manifest_id": {Type: jsonschema.String},
							"field":       {Type: jsonschema.String},
						},
					},
				},
			},
			"confidence": {
				Type: jsonschema.String,
				Enum: []string{"HIGH", "MEDIUM", "LOW"},
			},
			"risk_score": {Type: jsonschema.Number},
		},
		Required: []string{"type", "description", "confidence", "risk_score"},
	}
}

func personSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"name":                 {Type: jsonschema.String},
			"role":                 {Type: jsonschema.String},
			"flag_count":           {Type: jsonschema.Integer},
			"relation_to_incident": {Type: jsonschema.String},
		},
		Required: []string{"name", "role"},
	}
}
