package services

import (
	"math"
	"sort"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// PlannerConfig tunes the spacing behavior of the position planner
type PlannerConfig struct {
	// HorizontalSpacing is the fixed gap between a source node and a node
	// placed to its right
	HorizontalSpacing float64
	// VerticalSpacing is the buffer kept between stacked nodes
	VerticalSpacing float64
	// CircularRadius is the default radius for sibling circles
	CircularRadius float64
	// RankSeparation is the gap between layers in the layered layout
	RankSeparation float64
}

// DefaultPlannerConfig returns the spacing constants used by the canvas
func DefaultPlannerConfig() *PlannerConfig {
	return &PlannerConfig{
		HorizontalSpacing: 250,
		VerticalSpacing:   120,
		CircularRadius:    280,
		RankSeparation:    250,
	}
}

// PositionPlanner computes where nodes should go: a single best position for
// one new node relative to its sources, and full or partial re-layouts under
// the layered, force, radial and circular strategies. The planner is
// state-free; every call receives the full node and edge collections and
// returns fresh positions without mutating its inputs.
type PositionPlanner struct {
	config    *PlannerConfig
	hierarchy *HierarchyIndex
}

// NewPositionPlanner creates a position planner
func NewPositionPlanner(config *PlannerConfig) *PositionPlanner {
	if config == nil {
		config = DefaultPlannerConfig()
	}
	return &PositionPlanner{
		config:    config,
		hierarchy: NewHierarchyIndex(),
	}
}

// GetNodeAbsolutePosition resolves a node's position to absolute canvas
// coordinates. Positions of nested nodes are stored relative to their group,
// so ancestor offsets are added until a top-level node is reached. A visited
// set guards against parent cycles in malformed input.
func (p *PositionPlanner) GetNodeAbsolutePosition(
	node *entities.Node,
	allNodes []*entities.Node,
) valueobjects.Position {
	byID := nodesByID(allNodes)

	x := node.Position().X()
	y := node.Position().Y()

	visited := map[valueobjects.NodeID]bool{node.ID(): true}
	current := node
	for current.HasParent() {
		parent, exists := byID[current.ParentID()]
		if !exists || visited[parent.ID()] {
			break
		}
		visited[parent.ID()] = true
		x += parent.Position().X()
		y += parent.Position().Y()
		current = parent
	}

	pos, err := valueobjects.NewPosition(x, y)
	if err != nil {
		return node.Position()
	}
	return pos
}

// GetRightmostPosition computes the gap-aware placement for one new node
// created from the given source nodes. The target X clears the widest
// source by the horizontal spacing constant; the Y is chosen to avoid
// overlapping any node already occupying that X level while staying as
// close as possible to the sources' average Y.
func (p *PositionPlanner) GetRightmostPosition(
	sourceNodes []*entities.Node,
	allNodes []*entities.Node,
	edges []*entities.Edge,
) (valueobjects.Position, error) {
	if len(sourceNodes) == 0 {
		return valueobjects.Position{}, pkgerrors.NewValidationError("at least one source node is required")
	}

	// Resolve sources to absolute coordinates and find the target X
	targetX := math.Inf(-1)
	sumY := 0.0
	for _, source := range sourceNodes {
		abs := p.GetNodeAbsolutePosition(source, allNodes)
		width := source.Dimensions().OrDefault().Width()
		if right := abs.X() + width/2; right > targetX {
			targetX = right
		}
		sumY += abs.Y()
	}
	targetX += p.config.HorizontalSpacing
	averageY := sumY / float64(len(sourceNodes))

	// Collect nodes already occupying the target level, sorted by Y
	sourceIDs := make(map[valueobjects.NodeID]bool, len(sourceNodes))
	for _, source := range sourceNodes {
		sourceIDs[source.ID()] = true
	}

	var level []occupiedSlot
	for _, node := range allNodes {
		if sourceIDs[node.ID()] {
			continue
		}
		abs := p.GetNodeAbsolutePosition(node, allNodes)
		if math.Abs(abs.X()-targetX) <= p.config.HorizontalSpacing/2 {
			level = append(level, occupiedSlot{y: abs.Y(), height: node.Dimensions().OrDefault().Height()})
		}
	}
	if len(level) == 0 {
		return valueobjects.NewPosition(targetX, averageY)
	}
	sort.Slice(level, func(i, j int) bool { return level[i].y < level[j].y })

	// Search a Y window around the source average for the candidate with the
	// least total overlap against the occupied level
	newHeight := valueobjects.DefaultCardHeight
	window := 3 * p.config.VerticalSpacing
	step := p.config.VerticalSpacing / 4

	bestY := averageY
	bestOverlap := math.Inf(1)
	for candidate := averageY - window; candidate <= averageY+window; candidate += step {
		total := 0.0
		for _, occ := range level {
			// Each occupied slot is padded by the spacing constant
			top := occ.y
			bottom := occ.y + occ.height + p.config.VerticalSpacing
			overlap := math.Min(candidate+newHeight, bottom) - math.Max(candidate, top)
			if overlap > 0 {
				total += overlap
			}
		}
		if total < bestOverlap {
			bestOverlap = total
			bestY = candidate
		}
		if total == 0 {
			break
		}
	}

	if bestOverlap > 0 {
		// The window is fully congested: fall back to literal gaps between
		// the occupied slots and take the one closest to the source average
		if gapY, found := p.findNearestGap(level, averageY, newHeight); found {
			bestY = gapY
		}
	}

	return valueobjects.NewPosition(targetX, bestY)
}

// occupiedSlot is one node's vertical footprint at a placement level
type occupiedSlot struct {
	y      float64
	height float64
}

// findNearestGap scans the gaps between consecutive occupied slots (plus a
// gap before the first and after the last), keeps those large enough to fit
// a default-height node with spacing, and picks the one whose midpoint lies
// closest to the preferred Y.
func (p *PositionPlanner) findNearestGap(
	level []occupiedSlot,
	preferredY, newHeight float64,
) (float64, bool) {
	required := newHeight + p.config.VerticalSpacing

	type gap struct {
		start, end float64
	}
	var gaps []gap

	first := level[0]
	gaps = append(gaps, gap{start: first.y - required, end: first.y})

	for i := 0; i < len(level)-1; i++ {
		start := level[i].y + level[i].height
		end := level[i+1].y
		if end-start >= required {
			gaps = append(gaps, gap{start: start, end: end})
		}
	}

	last := level[len(level)-1]
	gaps = append(gaps, gap{start: last.y + last.height, end: last.y + last.height + required})

	bestDistance := math.Inf(1)
	bestY := 0.0
	found := false
	for _, g := range gaps {
		midpoint := (g.start + g.end) / 2
		if distance := math.Abs(midpoint - preferredY); distance < bestDistance {
			bestDistance = distance
			bestY = midpoint - newHeight/2
			found = true
		}
	}
	return bestY, found
}

// ArrangeChildrenCircular places the children at equal angles on a circle of
// the given radius centered on the parent, starting at 12 o'clock and going
// clockwise. Deterministic, O(N). Returns repositioned copies.
func (p *PositionPlanner) ArrangeChildrenCircular(
	parent *entities.Node,
	children []*entities.Node,
	radius float64,
) []*entities.Node {
	if radius <= 0 {
		radius = p.config.CircularRadius
	}
	if len(children) == 0 {
		return []*entities.Node{}
	}

	center := parent.Position()
	arranged := make([]*entities.Node, 0, len(children))
	for i, child := range children {
		angle := float64(i)*(2*math.Pi/float64(len(children))) - math.Pi/2
		pos, err := valueobjects.NewPosition(
			center.X()+radius*math.Cos(angle),
			center.Y()+radius*math.Sin(angle),
		)
		if err != nil {
			pos = center
		}
		arranged = append(arranged, child.WithPosition(pos))
	}
	return arranged
}

// GetLayoutBranchPositionUpdates levelizes every node reachable forward from
// the source nodes (excluding the sources themselves) and stacks each level
// one spacing unit to the right of the previous level's rightmost extent,
// centered vertically around the sources' average Y. Returns a partial
// position map, not a full node array.
func (p *PositionPlanner) GetLayoutBranchPositionUpdates(
	sourceNodes []*entities.Node,
	allNodes []*entities.Node,
	edges []*entities.Edge,
) map[valueobjects.NodeID]valueobjects.Position {
	updates := make(map[valueobjects.NodeID]valueobjects.Position)
	if len(sourceNodes) == 0 {
		return updates
	}

	byID := nodesByID(allNodes)
	outgoing := outgoingAdjacency(edges)

	sourceIDs := make(map[valueobjects.NodeID]bool, len(sourceNodes))
	sumY := 0.0
	rightmost := math.Inf(-1)
	for _, source := range sourceNodes {
		sourceIDs[source.ID()] = true
		abs := p.GetNodeAbsolutePosition(source, allNodes)
		sumY += abs.Y()
		if right := abs.X() + source.Dimensions().OrDefault().Width(); right > rightmost {
			rightmost = right
		}
	}
	averageY := sumY / float64(len(sourceNodes))

	// BFS levelization of the forward closure
	levels := make([][]*entities.Node, 0)
	visited := make(map[valueobjects.NodeID]bool, len(sourceNodes))
	frontier := make([]valueobjects.NodeID, 0, len(sourceNodes))
	for _, source := range sourceNodes {
		visited[source.ID()] = true
		frontier = append(frontier, source.ID())
	}

	for len(frontier) > 0 {
		var next []valueobjects.NodeID
		var levelNodes []*entities.Node
		for _, id := range frontier {
			for _, targetID := range outgoing[id] {
				if visited[targetID] {
					continue
				}
				visited[targetID] = true
				next = append(next, targetID)
				if node, exists := byID[targetID]; exists && !sourceIDs[targetID] {
					levelNodes = append(levelNodes, node)
				}
			}
		}
		if len(levelNodes) > 0 {
			levels = append(levels, levelNodes)
		}
		frontier = next
	}

	// Assign each level an X past the previous level's rightmost extent and
	// stack its nodes vertically around the source average
	levelX := rightmost + p.config.HorizontalSpacing
	for _, levelNodes := range levels {
		totalHeight := 0.0
		widest := 0.0
		for _, node := range levelNodes {
			dims := node.Dimensions().OrDefault()
			totalHeight += dims.Height() + p.config.VerticalSpacing
			if dims.Width() > widest {
				widest = dims.Width()
			}
		}
		totalHeight -= p.config.VerticalSpacing

		y := averageY - totalHeight/2
		for _, node := range levelNodes {
			pos, err := valueobjects.NewPosition(levelX, y)
			if err == nil {
				updates[node.ID()] = pos
			}
			y += node.Dimensions().OrDefault().Height() + p.config.VerticalSpacing
		}

		levelX += widest + p.config.HorizontalSpacing
	}

	return updates
}

// nodesByID indexes a node collection by ID
func nodesByID(nodes []*entities.Node) map[valueobjects.NodeID]*entities.Node {
	byID := make(map[valueobjects.NodeID]*entities.Node, len(nodes))
	for _, node := range nodes {
		byID[node.ID()] = node
	}
	return byID
}

// outgoingAdjacency builds a source-to-targets adjacency list
func outgoingAdjacency(edges []*entities.Edge) map[valueobjects.NodeID][]valueobjects.NodeID {
	adjacency := make(map[valueobjects.NodeID][]valueobjects.NodeID)
	for _, edge := range edges {
		adjacency[edge.SourceID()] = append(adjacency[edge.SourceID()], edge.TargetID())
	}
	return adjacency
}

// incomingCounts tallies incoming edges per node
func incomingCounts(edges []*entities.Edge) map[valueobjects.NodeID]int {
	counts := make(map[valueobjects.NodeID]int)
	for _, edge := range edges {
		counts[edge.TargetID()]++
	}
	return counts
}
