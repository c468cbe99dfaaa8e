package services

import (
	"math"
	"sort"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// LayoutStrategy names one of the four re-flow algorithms
type LayoutStrategy string

const (
	LayoutStrategyLayered  LayoutStrategy = "layered"
	LayoutStrategyForce    LayoutStrategy = "force"
	LayoutStrategyRadial   LayoutStrategy = "radial"
	LayoutStrategyCircular LayoutStrategy = "circular"
)

// ParseLayoutStrategy validates a raw strategy name
func ParseLayoutStrategy(s string) (LayoutStrategy, bool) {
	switch LayoutStrategy(s) {
	case LayoutStrategyLayered, LayoutStrategyForce, LayoutStrategyRadial, LayoutStrategyCircular:
		return LayoutStrategy(s), true
	default:
		return "", false
	}
}

// LayoutConfig selects and tunes a full-graph re-layout
type LayoutConfig struct {
	Strategy       LayoutStrategy
	Force          *ForceConfig
	Radial         *RadialConfig
	CircularRadius float64
}

// ApplyLayout dispatches to one of the four layout strategies and merges the
// resulting positions into a fresh node array. Only nodes visible under the
// current collapse state are re-flowed; descendants hidden by a collapsed
// ancestor keep their stored positions. Layout failures are non-fatal: any
// internal panic or unknown strategy yields the original nodes unchanged,
// never an error to the caller.
func (p *PositionPlanner) ApplyLayout(
	nodes []*entities.Node,
	edges []*entities.Edge,
	config LayoutConfig,
) (result []*entities.Node) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = nodes
		}
	}()

	visible := p.hierarchy.VisibleNodes(nodes, edges)

	var positions map[valueobjects.NodeID]valueobjects.Position
	switch config.Strategy {
	case LayoutStrategyLayered:
		roots := p.findRoots(visible, edges)
		positions = p.LayoutBranch(visible, edges, roots, BranchOptions{FromRoot: true})
	case LayoutStrategyForce:
		positions = p.ForceDirectedLayout(visible, edges, config.Force)
	case LayoutStrategyRadial:
		positions = p.RadialMindMapLayout(visible, edges, config.Radial)
	case LayoutStrategyCircular:
		positions = p.circularLayout(visible, edges, config.CircularRadius)
	default:
		return nodes
	}

	visibleSet := make(map[valueobjects.NodeID]bool, len(visible))
	for _, node := range visible {
		visibleSet[node.ID()] = true
	}

	updated := make([]*entities.Node, len(nodes))
	for i, node := range nodes {
		if pos, moved := positions[node.ID()]; moved && visibleSet[node.ID()] {
			updated[i] = node.WithPosition(pos)
		} else {
			updated[i] = node
		}
	}
	return updated
}

// findRoots returns the nodes with no incoming edge, falling back to the
// lowest node ID when a cycle leaves the graph rootless
func (p *PositionPlanner) findRoots(nodes []*entities.Node, edges []*entities.Edge) []*entities.Node {
	incoming := incomingCounts(edges)

	var roots []*entities.Node
	for _, node := range nodes {
		if incoming[node.ID()] == 0 {
			roots = append(roots, node)
		}
	}
	if len(roots) == 0 && len(nodes) > 0 {
		sorted := make([]*entities.Node, len(nodes))
		copy(sorted, nodes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID().String() < sorted[j].ID().String() })
		roots = sorted[:1]
	}
	return roots
}

// circularLayout keeps root positions and arranges every node's children on
// a circle around it, breadth-first so a parent is always placed before its
// children
func (p *PositionPlanner) circularLayout(
	nodes []*entities.Node,
	edges []*entities.Edge,
	radius float64,
) map[valueobjects.NodeID]valueobjects.Position {
	if radius <= 0 {
		radius = p.config.CircularRadius
	}

	positions := make(map[valueobjects.NodeID]valueobjects.Position)
	if len(nodes) == 0 {
		return positions
	}

	byID := nodesByID(nodes)
	outgoing := outgoingAdjacency(edges)
	roots := p.findRoots(nodes, edges)

	visited := make(map[valueobjects.NodeID]bool, len(nodes))
	var frontier []valueobjects.NodeID
	for _, root := range roots {
		visited[root.ID()] = true
		positions[root.ID()] = root.Position()
		frontier = append(frontier, root.ID())
	}

	for len(frontier) > 0 {
		var next []valueobjects.NodeID
		for _, parentID := range frontier {
			var children []valueobjects.NodeID
			for _, childID := range outgoing[parentID] {
				if _, exists := byID[childID]; !exists || visited[childID] {
					continue
				}
				visited[childID] = true
				children = append(children, childID)
			}
			if len(children) == 0 {
				continue
			}

			center := positions[parentID]
			for i, childID := range children {
				angle := float64(i)*(2*math.Pi/float64(len(children))) - math.Pi/2
				pos, err := valueobjects.NewPosition(
					center.X()+radius*math.Cos(angle),
					center.Y()+radius*math.Sin(angle),
				)
				if err != nil {
					pos = center
				}
				positions[childID] = pos
				next = append(next, childID)
			}
		}
		frontier = next
	}

	// Roots never move under this strategy
	for _, root := range roots {
		delete(positions, root.ID())
	}
	return positions
}
