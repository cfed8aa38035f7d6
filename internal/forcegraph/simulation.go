// Package forcegraph lays out a node-link graph with an iterative
// force-directed simulation: repulsive charge between all nodes, attractive
// spring forces along links and a centering force. The implementation follows
// the d3-force model so that layouts match what the dashboard used to get from
// the browser.
package forcegraph

import (
	"math"

	"github.com/myrjola/dockwatch/internal/errors"
)

// Node is a positioned graph node. X and Y are the simulated coordinates,
// updated on every tick.
type Node struct {
	ID string
	X  float64
	Y  float64

	vx float64
	vy float64
	// fx and fy pin the node to a fixed position while non-nil, which is how
	// manual repositioning works: pin on drag start, release on drag end.
	fx *float64
	fy *float64
}

// Link is a spring between two nodes, indexed into the simulation's node list.
type Link struct {
	Source   int
	Target   int
	Distance float64
}

const (
	defaultAlpha         = 1.0
	defaultAlphaMin      = 0.001
	defaultVelocityKeep  = 0.6  // 1 - velocityDecay(0.4)
	defaultChargeForce   = -200 // negative strength repulses
	reheatAlphaTarget    = 0.3
	initialPlacementStep = 10.0
	jiggleScale          = 1e-6
)

var ErrUnknownNode = errors.NewSentinel("unknown node")

// Simulation is mutable layout state scoped to one visible graph. Build a new
// one whenever the underlying node list changes.
type Simulation struct {
	nodes []*Node
	links []Link

	// degree counts links per node, used to bias the spring force towards the
	// less connected endpoint like d3 does.
	degree []int

	alpha       float64
	alphaMin    float64
	alphaDecay  float64
	alphaTarget float64

	centerX float64
	centerY float64

	// rngState drives a small linear congruential generator for breaking up
	// coincident nodes, keeping layouts deterministic.
	rngState uint32
}

// New creates a simulation centered in a width x height viewport. Nodes start
// on a deterministic phyllotaxis spiral around the center so that the first
// ticks do not explode.
func New(width, height float64, nodes []*Node, links []Link) *Simulation {
	s := &Simulation{
		nodes: nodes,
		links: links,
		// d3 default: decay reaches alphaMin in ~300 ticks.
		alpha:       defaultAlpha,
		alphaMin:    defaultAlphaMin,
		alphaDecay:  1 - math.Pow(defaultAlphaMin, 1.0/300),
		alphaTarget: 0,
		degree:      make([]int, len(nodes)),
		centerX:     width / 2,
		centerY:     height / 2,
		rngState:    1,
	}
	for _, link := range links {
		s.degree[link.Source]++
		s.degree[link.Target]++
	}
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	for i, node := range nodes {
		if node.X != 0 || node.Y != 0 {
			continue
		}
		radius := initialPlacementStep * math.Sqrt(0.5+float64(i))
		angle := float64(i) * goldenAngle
		node.X = s.centerX + radius*math.Cos(angle)
		node.Y = s.centerY + radius*math.Sin(angle)
	}
	return s
}

// Pin fixes a node at the given position and reheats the simulation so the
// rest of the graph adjusts, mirroring interactive dragging.
func (s *Simulation) Pin(id string, x, y float64) error {
	node := s.find(id)
	if node == nil {
		return errors.Wrap(ErrUnknownNode, "pin node")
	}
	node.fx = &x
	node.fy = &y
	s.alphaTarget = reheatAlphaTarget
	if s.alpha < reheatAlphaTarget {
		s.alpha = reheatAlphaTarget
	}
	return nil
}

// Release unpins a node so the forces govern it again.
func (s *Simulation) Release(id string) error {
	node := s.find(id)
	if node == nil {
		return errors.Wrap(ErrUnknownNode, "release node")
	}
	node.fx = nil
	node.fy = nil
	s.alphaTarget = 0
	return nil
}

func (s *Simulation) find(id string) *Node {
	for _, node := range s.nodes {
		if node.ID == id {
			return node
		}
	}
	return nil
}

// Nodes exposes the simulated nodes, positions included.
func (s *Simulation) Nodes() []*Node {
	return s.nodes
}

// maxRunTicks bounds Run when a raised alpha target (an active drag) keeps the
// energy from decaying below the minimum.
const maxRunTicks = 1000

// Run steps the simulation until its energy decays below the minimum and
// returns the number of ticks taken.
func (s *Simulation) Run() int {
	ticks := 0
	for s.alpha >= s.alphaMin && ticks < maxRunTicks {
		s.Step()
		ticks++
	}
	return ticks
}

// Step advances the simulation by one tick.
func (s *Simulation) Step() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	s.applyLinkForce()
	s.applyChargeForce()

	// Integrate velocities into positions. Pinned nodes snap to their fixed
	// position with zeroed velocity.
	for _, node := range s.nodes {
		if node.fx != nil {
			node.X = *node.fx
			node.vx = 0
		} else {
			node.vx *= defaultVelocityKeep
			node.X += node.vx
		}
		if node.fy != nil {
			node.Y = *node.fy
			node.vy = 0
		} else {
			node.vy *= defaultVelocityKeep
			node.Y += node.vy
		}
	}

	s.applyCenterForce()
}

// applyLinkForce pulls linked nodes towards their resting distance. The
// correction is split between the endpoints biased by their degree, matching
// d3's forceLink with default strength.
func (s *Simulation) applyLinkForce() {
	for _, link := range s.links {
		source, target := s.nodes[link.Source], s.nodes[link.Target]
		dx := target.X + target.vx - source.X - source.vx
		dy := target.Y + target.vy - source.Y - source.vy
		if dx == 0 {
			dx = s.jiggle()
		}
		if dy == 0 {
			dy = s.jiggle()
		}
		distance := math.Sqrt(dx*dx + dy*dy)
		strength := 1 / math.Min(float64(s.degree[link.Source]), float64(s.degree[link.Target]))
		correction := (distance - link.Distance) / distance * s.alpha * strength
		bias := float64(s.degree[link.Source]) / float64(s.degree[link.Source]+s.degree[link.Target])
		target.vx -= dx * correction * bias
		target.vy -= dy * correction * bias
		source.vx += dx * correction * (1 - bias)
		source.vy += dy * correction * (1 - bias)
	}
}

// applyChargeForce repulses every node pair with an inverse-square falloff.
// The graphs here are tiny (persons of interest plus the incident node), so
// the brute-force pass is fine without Barnes-Hut approximation.
func (s *Simulation) applyChargeForce() {
	for i, node := range s.nodes {
		for j, other := range s.nodes {
			if i == j {
				continue
			}
			dx := other.X - node.X
			dy := other.Y - node.Y
			if dx == 0 {
				dx = s.jiggle()
			}
			if dy == 0 {
				dy = s.jiggle()
			}
			distanceSquared := dx*dx + dy*dy
			weight := defaultChargeForce * s.alpha / distanceSquared
			node.vx += dx * weight
			node.vy += dy * weight
		}
	}
}

// applyCenterForce translates all nodes so their mean sits at the center.
func (s *Simulation) applyCenterForce() {
	var sumX, sumY float64
	for _, node := range s.nodes {
		sumX += node.X
		sumY += node.Y
	}
	count := float64(len(s.nodes))
	if count == 0 {
		return
	}
	shiftX := sumX/count - s.centerX
	shiftY := sumY/count - s.centerY
	for _, node := range s.nodes {
		if node.fx == nil {
			node.X -= shiftX
		}
		if node.fy == nil {
			node.Y -= shiftY
		}
	}
}

// jiggle returns a tiny deterministic pseudo-random offset to separate
// coincident nodes, like d3's jiggle().
func (s *Simulation) jiggle() float64 {
	// Numerical Recipes LCG constants.
	s.rngState = s.rngState*1664525 + 1013904223
	return (float64(s.rngState)/float64(math.MaxUint32) - 0.5) * jiggleScale
}
