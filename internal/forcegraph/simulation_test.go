package forcegraph_test

import (
	"math"
	"testing"

	"github.com/myrjola/dockwatch/internal/forcegraph"
	"github.com/stretchr/testify/require"
)

const (
	width  = 600.0
	height = 300.0
)

// starGraph builds the incident-centered star used by the relationship view:
// node 0 is the hub, every other node has exactly one link to it.
func starGraph(spokes int) ([]*forcegraph.Node, []forcegraph.Link) {
	nodes := []*forcegraph.Node{{ID: "INCIDENT"}}
	var links []forcegraph.Link
	for i := 0; i < spokes; i++ {
		nodes = append(nodes, &forcegraph.Node{ID: string(rune('A' + i))})
		links = append(links, forcegraph.Link{Source: i + 1, Target: 0, Distance: 80})
	}
	return nodes, links
}

func distance(a, b *forcegraph.Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func TestRunConverges(t *testing.T) {
	nodes, links := starGraph(4)
	sim := forcegraph.New(width, height, nodes, links)

	ticks := sim.Run()

	// Alpha decays to the minimum in roughly 300 ticks with d3's defaults.
	require.Greater(t, ticks, 250)
	require.Less(t, ticks, 350)
}

func TestStarLayoutSpreadsSpokes(t *testing.T) {
	nodes, links := starGraph(5)
	sim := forcegraph.New(width, height, nodes, links)
	sim.Run()

	hub := sim.Nodes()[0]
	for _, spoke := range sim.Nodes()[1:] {
		d := distance(hub, spoke)
		// Springs rest at 80 but the charge repulsion stretches them.
		require.Greater(t, d, 40.0, "spoke %s collapsed onto the hub", spoke.ID)
		require.Less(t, d, 400.0, "spoke %s flew away", spoke.ID)
	}

	// Spokes repel each other, so no two of them may coincide.
	spokes := sim.Nodes()[1:]
	for i := range spokes {
		for j := i + 1; j < len(spokes); j++ {
			require.Greater(t, distance(spokes[i], spokes[j]), 10.0)
		}
	}
}

func TestLayoutIsCentered(t *testing.T) {
	nodes, links := starGraph(3)
	sim := forcegraph.New(width, height, nodes, links)
	sim.Run()

	var meanX, meanY float64
	for _, node := range sim.Nodes() {
		meanX += node.X
		meanY += node.Y
	}
	meanX /= float64(len(sim.Nodes()))
	meanY /= float64(len(sim.Nodes()))

	require.InDelta(t, width/2, meanX, 1.0)
	require.InDelta(t, height/2, meanY, 1.0)
}

func TestLayoutIsDeterministic(t *testing.T) {
	first, firstLinks := starGraph(4)
	second, secondLinks := starGraph(4)

	forcegraph.New(width, height, first, firstLinks).Run()
	forcegraph.New(width, height, second, secondLinks).Run()

	for i := range first {
		require.InDelta(t, first[i].X, second[i].X, 1e-9)
		require.InDelta(t, first[i].Y, second[i].Y, 1e-9)
	}
}

func TestPinHoldsNodeInPlace(t *testing.T) {
	nodes, links := starGraph(4)
	sim := forcegraph.New(width, height, nodes, links)
	sim.Run()

	require.NoError(t, sim.Pin("A", 50, 60))
	for i := 0; i < 100; i++ {
		sim.Step()
	}

	pinned := sim.Nodes()[1]
	require.InDelta(t, 50.0, pinned.X, 1e-9)
	require.InDelta(t, 60.0, pinned.Y, 1e-9)

	// After release the forces take over again and pull the node back
	// towards the hub's neighborhood.
	require.NoError(t, sim.Release("A"))
	sim.Run()
	require.Greater(t, math.Abs(pinned.X-50.0), 1e-6)

	require.Error(t, sim.Pin("nobody", 0, 0))
	require.Error(t, sim.Release("nobody"))
}
