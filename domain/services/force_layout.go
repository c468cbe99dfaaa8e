package services

import (
	"math"
	"math/rand"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// ForceConfig tunes the physics simulation
type ForceConfig struct {
	// Seed drives the RNG used to scatter unplaced nodes; a fixed seed makes
	// the layout reproducible
	Seed int64
	// MinIterations and MaxIterations bound the simulation length; the
	// actual count scales with graph size between the two
	MinIterations int
	MaxIterations int
	// Temperature is the kinetic-energy threshold below which the
	// simulation stops early
	Temperature float64
}

// DefaultForceConfig returns the simulation bounds used by the canvas
func DefaultForceConfig() *ForceConfig {
	return &ForceConfig{
		Seed:          1,
		MinIterations: 300,
		MaxIterations: 500,
		Temperature:   0.5,
	}
}

// ForceDirectedLayout computes an organic layout by simulating link
// attraction, many-body repulsion, a weak centering pull and pairwise
// collision, then rounding the settled positions to integers. Link distance
// and repulsion strength both shrink as the graph grows so denser graphs
// pack tighter. A single node sits at the origin without simulation.
func (p *PositionPlanner) ForceDirectedLayout(
	nodes []*entities.Node,
	edges []*entities.Edge,
	config *ForceConfig,
) map[valueobjects.NodeID]valueobjects.Position {
	if config == nil {
		config = DefaultForceConfig()
	}

	result := make(map[valueobjects.NodeID]valueobjects.Position)
	n := len(nodes)
	if n == 0 {
		return result
	}
	if n == 1 {
		origin, _ := valueobjects.NewPosition(0, 0)
		result[nodes[0].ID()] = origin
		return result
	}

	rng := rand.New(rand.NewSource(config.Seed))

	// Seed simulation state from existing coordinates; unplaced nodes start
	// at a random point in a bounded square, which helps convergence
	x := make([]float64, n)
	y := make([]float64, n)
	vx := make([]float64, n)
	vy := make([]float64, n)
	indexOf := make(map[valueobjects.NodeID]int, n)
	for i, node := range nodes {
		indexOf[node.ID()] = i
		if node.Position().IsOrigin() {
			x[i] = (rng.Float64() - 0.5) * 800
			y[i] = (rng.Float64() - 0.5) * 800
		} else {
			x[i] = node.Position().X()
			y[i] = node.Position().Y()
		}
	}

	type link struct{ source, target int }
	links := make([]link, 0, len(edges))
	for _, edge := range edges {
		source, sourceOK := indexOf[edge.SourceID()]
		target, targetOK := indexOf[edge.TargetID()]
		if sourceOK && targetOK && source != target {
			links = append(links, link{source: source, target: target})
		}
	}

	// Denser graphs pack tighter: both the link target distance and the
	// repulsion magnitude decay with node count
	count := float64(n)
	linkDistance := math.Max(150, 400-2.5*count)
	repulsion := 3000 / math.Sqrt(count)
	const maxRepelDistance = 800.0
	const centerStrength = 0.02
	const linkStrength = 0.1
	const velocityDamping = 0.6

	collisionRadius := p.collisionRadius(nodes)

	iterations := config.MinIterations + n
	if iterations > config.MaxIterations {
		iterations = config.MaxIterations
	}

	for tick := 0; tick < iterations; tick++ {
		// Link attraction toward the target distance
		for _, l := range links {
			dx := x[l.target] - x[l.source]
			dy := y[l.target] - y[l.source]
			dist := math.Hypot(dx, dy)
			if dist == 0 {
				dist = 1e-6
			}
			force := (dist - linkDistance) * linkStrength
			fx := force * dx / dist
			fy := force * dy / dist
			vx[l.source] += fx
			vy[l.source] += fy
			vx[l.target] -= fx
			vy[l.target] -= fy
		}

		// Many-body repulsion, capped at a maximum interaction distance
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := x[j] - x[i]
				dy := y[j] - y[i]
				dist := math.Hypot(dx, dy)
				if dist == 0 {
					dx = (rng.Float64() - 0.5) * 1e-3
					dy = (rng.Float64() - 0.5) * 1e-3
					dist = math.Hypot(dx, dy)
				}
				if dist > maxRepelDistance {
					continue
				}
				force := repulsion / (dist * dist)
				fx := force * dx / dist
				fy := force * dy / dist
				vx[i] -= fx
				vy[i] -= fy
				vx[j] += fx
				vy[j] += fy
			}
		}

		// Weak centering pull toward the origin
		for i := 0; i < n; i++ {
			vx[i] -= x[i] * centerStrength
			vy[i] -= y[i] * centerStrength
		}

		// Integrate with damping
		temperature := 0.0
		for i := 0; i < n; i++ {
			vx[i] *= velocityDamping
			vy[i] *= velocityDamping
			x[i] += vx[i]
			y[i] += vy[i]
			temperature += math.Hypot(vx[i], vy[i])
		}

		// Collision relaxation, several passes per tick for stability
		for pass := 0; pass < 2; pass++ {
			relaxCollisions(x, y, collisionRadius)
		}

		if temperature < config.Temperature {
			break
		}
	}

	// Final relaxation sweeps so a simulation stopped early by the
	// temperature cutoff still ends overlap-free
	for sweep := 0; sweep < 100; sweep++ {
		if relaxCollisions(x, y, collisionRadius) == 0 {
			break
		}
	}

	for i, node := range nodes {
		pos, err := valueobjects.NewPosition(x[i], y[i])
		if err != nil {
			pos = node.Position()
		}
		result[node.ID()] = pos.Rounded()
	}
	return result
}

// collisionRadius derives the shared collision radius from the average node
// dimensions across the graph plus the spacing buffer
func (p *PositionPlanner) collisionRadius(nodes []*entities.Node) float64 {
	sumW := 0.0
	sumH := 0.0
	for _, node := range nodes {
		dims := node.Dimensions().OrDefault()
		sumW += dims.Width()
		sumH += dims.Height()
	}
	count := float64(len(nodes))
	avg := (sumW/count + sumH/count) / 2
	return avg/2 + p.config.VerticalSpacing/2
}

// relaxCollisions pushes every overlapping pair apart to the collision
// diameter plus a small margin, returning the number of pairs adjusted
func relaxCollisions(x, y []float64, radius float64) int {
	minDistance := 2*radius + 2
	adjusted := 0
	for i := 0; i < len(x); i++ {
		for j := i + 1; j < len(x); j++ {
			dx := x[j] - x[i]
			dy := y[j] - y[i]
			dist := math.Hypot(dx, dy)
			if dist >= minDistance {
				continue
			}
			if dist == 0 {
				dx = 1e-3 * float64(i+1)
				dy = 1e-3
				dist = math.Hypot(dx, dy)
			}
			push := (minDistance - dist) / 2
			ux := dx / dist
			uy := dy / dist
			x[i] -= ux * push
			y[i] -= uy * push
			x[j] += ux * push
			y[j] += uy * push
			adjusted++
		}
	}
	return adjusted
}
