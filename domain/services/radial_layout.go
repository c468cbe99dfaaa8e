package services

import (
	"math"
	"sort"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// RadialConfig tunes the concentric mind-map layout
type RadialConfig struct {
	// BaseRadius scales every ring; the ring at depth L has radius
	// BaseRadius * 2.5 * L
	BaseRadius float64
}

// DefaultRadialConfig returns the ring scale used by the canvas
func DefaultRadialConfig() *RadialConfig {
	return &RadialConfig{BaseRadius: 120}
}

// radialRingFactor grows each ring's radius with depth
const radialRingFactor = 2.5

// RadialMindMapLayout places roots at the center (or evenly on an outer
// circle when there are several) and recursively spreads each node's
// children on a circle centered at the parent. Ring radius grows with
// depth; the angular span is a full circle at depth one and a wide sector
// anchored around the parent's own angle from the origin thereafter.
// Depth-first, one entry per node, O(N).
func (p *PositionPlanner) RadialMindMapLayout(
	nodes []*entities.Node,
	edges []*entities.Edge,
	config *RadialConfig,
) map[valueobjects.NodeID]valueobjects.Position {
	if config == nil {
		config = DefaultRadialConfig()
	}

	result := make(map[valueobjects.NodeID]valueobjects.Position)
	if len(nodes) == 0 {
		return result
	}

	outgoing := outgoingAdjacency(edges)
	incoming := incomingCounts(edges)

	var roots []*entities.Node
	for _, node := range nodes {
		if incoming[node.ID()] == 0 {
			roots = append(roots, node)
		}
	}
	// A fully cyclic graph has no root; break the tie deterministically
	if len(roots) == 0 {
		sorted := make([]*entities.Node, len(nodes))
		copy(sorted, nodes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID().String() < sorted[j].ID().String() })
		roots = sorted[:1]
	}

	visited := make(map[valueobjects.NodeID]bool)

	place := func(id valueobjects.NodeID, x, y float64) {
		pos, err := valueobjects.NewPosition(x, y)
		if err != nil {
			return
		}
		result[id] = pos
	}

	if len(roots) == 1 {
		root := roots[0]
		visited[root.ID()] = true
		place(root.ID(), 0, 0)
		p.placeRadialChildren(root.ID(), 0, 0, -math.Pi/2, 1, outgoing, visited, config, place)
		return result
	}

	// Several roots share an outer circle, evenly spaced from 12 o'clock
	outerRadius := config.BaseRadius * radialRingFactor
	for i, root := range roots {
		angle := float64(i)*(2*math.Pi/float64(len(roots))) - math.Pi/2
		x := outerRadius * math.Cos(angle)
		y := outerRadius * math.Sin(angle)
		visited[root.ID()] = true
		place(root.ID(), x, y)
	}
	for _, root := range roots {
		pos := result[root.ID()]
		angle := math.Atan2(pos.Y(), pos.X())
		p.placeRadialChildren(root.ID(), pos.X(), pos.Y(), angle, 1, outgoing, visited, config, place)
	}
	return result
}

// placeRadialChildren spreads the unvisited children of one node on a ring
// around it and recurses depth-first
func (p *PositionPlanner) placeRadialChildren(
	parentID valueobjects.NodeID,
	parentX, parentY, parentAngle float64,
	level int,
	outgoing map[valueobjects.NodeID][]valueobjects.NodeID,
	visited map[valueobjects.NodeID]bool,
	config *RadialConfig,
	place func(valueobjects.NodeID, float64, float64),
) {
	var children []valueobjects.NodeID
	for _, childID := range outgoing[parentID] {
		if !visited[childID] {
			visited[childID] = true
			children = append(children, childID)
		}
	}
	if len(children) == 0 {
		return
	}

	radius := config.BaseRadius * radialRingFactor * float64(level)

	// Full circle off the root; a sector no wider than a half turn deeper
	// down so every child still moves strictly outward
	span := 2 * math.Pi
	if level > 1 {
		span = math.Pi
	}

	for i, childID := range children {
		var angle float64
		if span >= 2*math.Pi {
			angle = float64(i)*(2*math.Pi/float64(len(children))) - math.Pi/2
		} else {
			angle = parentAngle - span/2 + (float64(i)+0.5)*span/float64(len(children))
		}

		x := parentX + radius*math.Cos(angle)
		y := parentY + radius*math.Sin(angle)
		place(childID, x, y)
		p.placeRadialChildren(childID, x, y, math.Atan2(y, x), level+1, outgoing, visited, config, place)
	}
}
