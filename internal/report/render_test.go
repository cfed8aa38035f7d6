package report_test

import (
	"testing"

	"github.com/myrjola/dockwatch/internal/models"
	"github.com/myrjola/dockwatch/internal/report"
	"github.com/stretchr/testify/require"
)

func sampleReport() *models.InvestigationReport {
	return &models.InvestigationReport{
		InvestigationID: "INV-4452",
		Summary:         "Pallet count mismatch at dock 7.",
		Discrepancies: []models.Discrepancy{
			{
				Type:        models.QuantityVariance,
				Description: "Manifest lists 24 pallets, footage shows 21 loaded.",
				Evidence: models.EvidenceRefs{
					Video:    &models.VideoEvidence{Timestamp: "14:02", Observation: "21 pallets cross the threshold"},
					Audio:    nil,
					Document: &models.DocumentEvidence{ManifestID: "MAN-9981", Field: "pallet_count"},
				},
				Confidence: models.ConfidenceHigh,
				RiskScore:  9,
			},
			{
				Type:        models.VerbalContradiction,
				Description: "Driver claims traffic delay, GPS shows a 40 minute stop.",
				Evidence: models.EvidenceRefs{
					Video:    nil,
					Audio:    &models.AudioEvidence{Timestamp: "14:31", Transcription: "Held up on the interstate"},
					Document: nil,
				},
				Confidence: models.ConfidenceMedium,
				RiskScore:  5.5,
			},
		},
		PersonsOfInterest: []models.PersonOfInterest{
			{Name: "R. Vance", Role: "Driver", FlagCount: 3, RelationToIncident: "Loaded the truck"},
			{Name: "M. Osei", Role: "Dock Lead", FlagCount: 1, RelationToIncident: "Signed the manifest"},
		},
		RecommendedActions: []string{"Audit dock 7 scans"},
		ShrinkageEstimate:  "$12,400",
	}
}

func TestCards(t *testing.T) {
	cards := report.Cards(sampleReport())
	require.Len(t, cards, 2)

	first := cards[0]
	require.Equal(t, 1, first.Sequence)
	require.Equal(t, "QUANTITY VARIANCE", first.CategoryLabel)
	require.Equal(t, "#ef4444", first.Color)
	require.Equal(t, "9/10", first.RiskLabel)
	require.Equal(t, report.RiskHigh, first.RiskBand)
	require.NotNil(t, first.Video)
	require.Nil(t, first.Audio)
	require.NotNil(t, first.Document)

	second := cards[1]
	require.Equal(t, "5.5/10", second.RiskLabel)
	require.Equal(t, report.RiskElevated, second.RiskBand)
	require.NotNil(t, second.Audio)
	require.Nil(t, second.Video)
}

func TestScatter(t *testing.T) {
	plot := report.Scatter(sampleReport().Discrepancies)
	require.Len(t, plot.Points, 2)

	first := plot.Points[0]
	require.Equal(t, 1, first.Sequence)
	require.Equal(t, 100, first.Weight, "HIGH confidence weighs 100")
	require.InDelta(t, 10.0, first.R, 0.001, "radius is the root of the weight")
	require.Equal(t, "#ef4444", first.Color)

	second := plot.Points[1]
	require.Equal(t, 2, second.Sequence)
	require.Equal(t, 60, second.Weight, "MEDIUM confidence weighs 60")
	require.Greater(t, second.CX, first.CX, "x follows report sequence order")
	require.Greater(t, second.CY, first.CY, "lower risk sits lower on the chart")
}

func TestScatterToleratesOutOfRangeRisk(t *testing.T) {
	discrepancies := []models.Discrepancy{
		{Type: models.TemporalMismatch, Description: "too big", Evidence: models.EvidenceRefs{}, Confidence: models.ConfidenceLow, RiskScore: 42},
		{Type: models.TemporalMismatch, Description: "negative", Evidence: models.EvidenceRefs{}, Confidence: models.ConfidenceLow, RiskScore: -3},
	}
	plot := report.Scatter(discrepancies)

	top := plot.Points[0]
	bottom := plot.Points[1]
	require.InDelta(t, 30.0, top.CY, 0.001, "clamped to the top of the scale")
	require.InDelta(t, 230.0, bottom.CY, 0.001, "clamped to the bottom of the scale")
	require.InDelta(t, 42.0, top.Risk, 0.001, "raw value preserved for labels")

	// Unknown confidence still renders with the LOW weight.
	unknown := report.Scatter([]models.Discrepancy{
		{Type: "MYSTERY", Description: "", Evidence: models.EvidenceRefs{}, Confidence: "SHRUG", RiskScore: 1},
	})
	require.Equal(t, 30, unknown.Points[0].Weight)
	require.Equal(t, "#ffffff", unknown.Points[0].Color)
}

func TestRelationshipGraph(t *testing.T) {
	graph := report.RelationshipGraph(sampleReport().PersonsOfInterest)

	require.Len(t, graph.Nodes, 3, "two persons plus the incident node")
	require.Len(t, graph.Edges, 2, "star topology, one edge per person")

	incident := graph.Nodes[0]
	require.True(t, incident.Incident)
	require.InDelta(t, 10.0, incident.R, 0.001, "incident node has fixed size")

	vance := graph.Nodes[1]
	require.Equal(t, "R. Vance", vance.ID)
	require.InDelta(t, 5+2*3, vance.R, 0.001, "person size scales with flag count")

	osei := graph.Nodes[2]
	require.InDelta(t, 5+2*1, osei.R, 0.001)

	// Every edge ends at the incident node.
	for _, edge := range graph.Edges {
		require.InDelta(t, incident.X, edge.X2, 0.001)
		require.InDelta(t, incident.Y, edge.Y2, 0.001)
	}
}

func TestRelationshipGraphEmpty(t *testing.T) {
	graph := report.RelationshipGraph(nil)
	require.Empty(t, graph.Nodes)
	require.Empty(t, graph.Edges)
}
