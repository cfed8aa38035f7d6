package models

// DiscrepancyType classifies a cross-modal inconsistency found by the analysis.
type DiscrepancyType string

const (
	TemporalMismatch    DiscrepancyType = "TEMPORAL_MISMATCH"
	QuantityVariance    DiscrepancyType = "QUANTITY_VARIANCE"
	VerbalContradiction DiscrepancyType = "VERBAL_CONTRADICTION"
	BehavioralAnomaly   DiscrepancyType = "BEHAVIORAL_ANOMALY"
)

func (t DiscrepancyType) Valid() bool {
	switch t {
	case TemporalMismatch, QuantityVariance, VerbalContradiction, BehavioralAnomaly:
		return true
	}
	return false
}

// Confidence grades how certain the analysis is about a discrepancy.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// VideoEvidence cites an observation in the uploaded footage.
type VideoEvidence struct {
	Timestamp   string `json:"timestamp"`
	Observation string `json:"observation"`
}

// AudioEvidence cites a passage in the uploaded voice log.
type AudioEvidence struct {
	Timestamp     string `json:"timestamp"`
	Transcription string `json:"transcription"`
}

// DocumentEvidence cites a field in the uploaded manifest.
type DocumentEvidence struct {
	ManifestID string `json:"manifest_id"`
	Field      string `json:"field"`
}

// EvidenceRefs holds up to one citation per modality. Each reference is
// optional; a discrepancy may cite any subset of modalities.
type EvidenceRefs struct {
	Video    *VideoEvidence    `json:"video,omitempty"`
	Audio    *AudioEvidence    `json:"audio,omitempty"`
	Document *DocumentEvidence `json:"document,omitempty"`
}

// Discrepancy is a single flagged inconsistency in the investigation report.
//
// RiskScore is expected in [0,10] but the collaborator is not contractually
// bound to that range; renderers must tolerate out-of-range values.
type Discrepancy struct {
	Type        DiscrepancyType `json:"type"`
	Description string          `json:"description"`
	Evidence    EvidenceRefs    `json:"evidence"`
	Confidence  Confidence      `json:"confidence"`
	RiskScore   float64         `json:"risk_score"`
}

// PersonOfInterest is an actor referenced in the report, independent of
// specific discrepancies.
type PersonOfInterest struct {
	Name               string `json:"name"`
	Role               string `json:"role"`
	FlagCount          int    `json:"flag_count"`
	RelationToIncident string `json:"relation_to_incident"`
}

// InvestigationReport is the structured result of one analysis run. It is
// immutable once received and replaced wholesale on a new analysis.
type InvestigationReport struct {
	InvestigationID    string             `json:"investigation_id"`
	Summary            string             `json:"summary"`
	Discrepancies      []Discrepancy      `json:"discrepancies_found"`
	PersonsOfInterest  []PersonOfInterest `json:"persons_of_interest"`
	RecommendedActions []string           `json:"recommended_actions"`
	ShrinkageEstimate  string             `json:"shrinkage_estimate_usd"`
}
