// Package report turns an investigation report into the view data behind the
// dashboard: discrepancy cards, the risk/time scatter plot and the
// relationship graph. Everything here is a pure transform over the report.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/myrjola/dockwatch/internal/forcegraph"
	"github.com/myrjola/dockwatch/internal/models"
)

// RiskBand groups risk scores into the color bands used by the cards.
type RiskBand string

const (
	RiskHigh     RiskBand = "high"     // risk score >= 8
	RiskElevated RiskBand = "elevated" // risk score >= 5
	RiskLow      RiskBand = "low"
)

func riskBand(score float64) RiskBand {
	switch {
	case score >= 8: //nolint:mnd // band boundary
		return RiskHigh
	case score >= 5: //nolint:mnd // band boundary
		return RiskElevated
	default:
		return RiskLow
	}
}

// categoryColors matches the dashboard palette: amber, red, blue, purple.
var categoryColors = map[models.DiscrepancyType]string{
	models.TemporalMismatch:    "#f59e0b",
	models.QuantityVariance:    "#ef4444",
	models.VerbalContradiction: "#3b82f6",
	models.BehavioralAnomaly:   "#a855f7",
}

const fallbackColor = "#ffffff"

func categoryColor(t models.DiscrepancyType) string {
	if color, ok := categoryColors[t]; ok {
		return color
	}
	return fallbackColor
}

// confidenceWeight maps confidence grades to scatter point weights. Unknown
// grades weigh the same as LOW so that out-of-contract values still render.
func confidenceWeight(c models.Confidence) int {
	switch c {
	case models.ConfidenceHigh:
		return 100
	case models.ConfidenceMedium:
		return 60
	case models.ConfidenceLow:
		return 30
	default:
		return 30
	}
}

// Card is one discrepancy prepared for display, in report order.
type Card struct {
	Sequence      int
	Category      models.DiscrepancyType
	CategoryLabel string
	Color         string
	Confidence    models.Confidence
	RiskLabel     string
	RiskBand      RiskBand
	Description   string
	Video         *models.VideoEvidence
	Audio         *models.AudioEvidence
	Document      *models.DocumentEvidence
}

// Cards transforms the report's discrepancies into display cards.
func Cards(r *models.InvestigationReport) []Card {
	cards := make([]Card, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		cards[i] = Card{
			Sequence:      i + 1,
			Category:      d.Type,
			CategoryLabel: strings.ReplaceAll(string(d.Type), "_", " "),
			Color:         categoryColor(d.Type),
			Confidence:    d.Confidence,
			RiskLabel:     riskLabel(d.RiskScore),
			RiskBand:      riskBand(d.RiskScore),
			Description:   d.Description,
			Video:         d.Evidence.Video,
			Audio:         d.Evidence.Audio,
			Document:      d.Evidence.Document,
		}
	}
	return cards
}

// riskLabel renders the raw score even when it falls outside [0,10].
func riskLabel(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "/10"
}

// Scatter plot geometry. The templates draw the precomputed coordinates into
// a fixed-viewBox SVG and stay free of layout math.
const (
	scatterWidth   = 640.0
	scatterHeight  = 260.0
	scatterPadding = 30.0
	riskScaleMax   = 10.0
)

// ScatterPoint is one discrepancy on the risk/time scatter.
//
// The x-axis is the discrepancy's 1-based position in the report sequence, a
// stand-in for event time: the report's timestamps are free-text strings and
// are deliberately not parsed into instants.
type ScatterPoint struct {
	Sequence    int
	Risk        float64
	Weight      int
	Color       string
	Category    models.DiscrepancyType
	Confidence  models.Confidence
	Description string

	CX float64
	CY float64
	R  float64
}

// ScatterPlot is the full chart: points plus the viewBox dimensions.
type ScatterPlot struct {
	Width  float64
	Height float64
	Points []ScatterPoint
	// GridLines are the y pixel positions for the 0..10 risk guides.
	GridLines []float64
}

// Scatter lays out one point per discrepancy. Risk scores outside [0,10] are
// clamped for geometry only; Risk keeps the raw value.
func Scatter(discrepancies []models.Discrepancy) ScatterPlot {
	plot := ScatterPlot{
		Width:     scatterWidth,
		Height:    scatterHeight,
		Points:    make([]ScatterPoint, len(discrepancies)),
		GridLines: nil,
	}
	plotWidth := scatterWidth - 2*scatterPadding
	plotHeight := scatterHeight - 2*scatterPadding

	for risk := 0.0; risk <= riskScaleMax; risk += 2 {
		plot.GridLines = append(plot.GridLines, scatterPadding+(1-risk/riskScaleMax)*plotHeight)
	}

	for i, d := range discrepancies {
		clamped := math.Min(math.Max(d.RiskScore, 0), riskScaleMax)
		weight := confidenceWeight(d.Confidence)
		plot.Points[i] = ScatterPoint{
			Sequence:    i + 1,
			Risk:        d.RiskScore,
			Weight:      weight,
			Color:       categoryColor(d.Type),
			Category:    d.Type,
			Confidence:  d.Confidence,
			Description: d.Description,
			CX:          scatterPadding + float64(i+1)/float64(len(discrepancies)+1)*plotWidth,
			CY:          scatterPadding + (1-clamped/riskScaleMax)*plotHeight,
			// Point area tracks the weight, so the radius is its root.
			R: math.Sqrt(float64(weight)),
		}
	}
	return plot
}

// Relationship graph: a star topology around a synthetic incident node.
const (
	graphWidth       = 600.0
	graphHeight      = 300.0
	incidentNodeID   = "INCIDENT"
	incidentRadius   = 10.0
	incidentColor    = "#ef4444"
	personBaseRadius = 5.0
	personFlagRadius = 2.0
	personColor      = "#3b82f6"
	linkDistance     = 80.0
)

// GraphNode is a positioned node of the relationship graph.
type GraphNode struct {
	ID       string
	Label    string
	Incident bool
	X        float64
	Y        float64
	R        float64
	Color    string
}

// GraphEdge connects a person to the incident node with resolved coordinates.
type GraphEdge struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Graph is the rendered relationship view.
type Graph struct {
	Width  float64
	Height float64
	Nodes  []GraphNode
	Edges  []GraphEdge
}

// RelationshipGraph builds and settles a fresh simulation for the person list.
// Every person gets exactly one edge to the synthetic incident node; there are
// no person-to-person edges in this design. A person's node size scales with
// their flag count, the incident node has a fixed size.
//
// The simulation is owned by the produced view; callers rebuild the graph
// whenever the person list changes.
//
// The layout is settled once and emitted as static SVG: the simulation's
// Pin/Release repositioning is not reachable from the rendered page, which
// has no drag interaction. Nodes land where the converged simulation puts
// them.
func RelationshipGraph(persons []models.PersonOfInterest) Graph {
	graph := Graph{Width: graphWidth, Height: graphHeight, Nodes: nil, Edges: nil}
	if len(persons) == 0 {
		return graph
	}

	nodes := make([]*forcegraph.Node, 0, len(persons)+1)
	links := make([]forcegraph.Link, 0, len(persons))
	nodes = append(nodes, &forcegraph.Node{ID: incidentNodeID})
	for i, person := range persons {
		nodes = append(nodes, &forcegraph.Node{ID: person.Name})
		links = append(links, forcegraph.Link{Source: i + 1, Target: 0, Distance: linkDistance})
	}

	sim := forcegraph.New(graphWidth, graphHeight, nodes, links)
	sim.Run()

	settled := sim.Nodes()
	incident := settled[0]
	graph.Nodes = append(graph.Nodes, GraphNode{
		ID:       incidentNodeID,
		Label:    incidentNodeID,
		Incident: true,
		X:        incident.X,
		Y:        incident.Y,
		R:        incidentRadius,
		Color:    incidentColor,
	})
	for i, person := range persons {
		node := settled[i+1]
		graph.Nodes = append(graph.Nodes, GraphNode{
			ID:       node.ID,
			Label:    fmt.Sprintf("%s (%s)", person.Name, person.Role),
			Incident: false,
			X:        node.X,
			Y:        node.Y,
			R:        personBaseRadius + personFlagRadius*float64(person.FlagCount),
			Color:    personColor,
		})
		graph.Edges = append(graph.Edges, GraphEdge{
			X1: node.X, Y1: node.Y,
			X2: incident.X, Y2: incident.Y,
		})
	}
	return graph
}
