package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

func TestParseLayoutStrategy(t *testing.T) {
	for _, raw := range []string{"layered", "force", "radial", "circular"} {
		strategy, ok := ParseLayoutStrategy(raw)
		assert.True(t, ok)
		assert.Equal(t, LayoutStrategy(raw), strategy)
	}

	_, ok := ParseLayoutStrategy("treemap")
	assert.False(t, ok)
}

func TestApplyLayout_UnknownStrategy(t *testing.T) {
	planner := NewPositionPlanner(nil)

	a := makeNode(t, "a", 10, 10)
	result := planner.ApplyLayout([]*entities.Node{a}, nil, LayoutConfig{Strategy: "treemap"})

	require.Len(t, result, 1)
	assert.Equal(t, 10.0, result[0].Position().X(), "unknown strategies leave nodes untouched")
}

func TestApplyLayout_DoesNotMutateInput(t *testing.T) {
	planner := NewPositionPlanner(nil)

	root := makeNode(t, "root", 100, 100)
	child := makeNode(t, "child", 0, 0)
	nodes := []*entities.Node{root, child}
	edges := []*entities.Edge{connect(t, root, child)}

	planner.ApplyLayout(nodes, edges, LayoutConfig{Strategy: LayoutStrategyCircular})

	assert.Equal(t, 0.0, child.Position().X(), "inputs keep their original positions")
}

func TestApplyLayout_Circular(t *testing.T) {
	planner := NewPositionPlanner(nil)

	root := makeNode(t, "root", 100, 100)
	c0 := makeNode(t, "c0", 0, 0)
	c1 := makeNode(t, "c1", 0, 0)
	nodes := []*entities.Node{root, c0, c1}
	edges := []*entities.Edge{
		connect(t, root, c0),
		connect(t, root, c1),
	}

	result := planner.ApplyLayout(nodes, edges, LayoutConfig{Strategy: LayoutStrategyCircular})
	require.Len(t, result, 3)

	byTitle := make(map[string]*entities.Node)
	for _, node := range result {
		byTitle[node.Title()] = node
	}

	// Root keeps its position
	assert.Equal(t, 100.0, byTitle["root"].Position().X())
	assert.Equal(t, 100.0, byTitle["root"].Position().Y())

	// Children land on the default 280 circle around the root
	for _, title := range []string{"c0", "c1"} {
		distance := byTitle[title].Position().DistanceTo(byTitle["root"].Position())
		assert.InDelta(t, 280.0, distance, 1e-9)
	}

	// First child at 12 o'clock
	assert.InDelta(t, 100.0, byTitle["c0"].Position().X(), 1e-9)
	assert.InDelta(t, -180.0, byTitle["c0"].Position().Y(), 1e-9)
}

func TestApplyLayout_RecoversFromBrokenInput(t *testing.T) {
	planner := NewPositionPlanner(nil)

	a := makeNode(t, "a", 10, 20)
	nodes := []*entities.Node{a, nil}

	// A nil entry blows up inside the strategy; the caller must still get
	// the original collection back instead of a panic
	result := planner.ApplyLayout(nodes, nil, LayoutConfig{Strategy: LayoutStrategyLayered})
	require.Len(t, result, 2)
	assert.Same(t, a, result[0])
	assert.Nil(t, result[1])
}

func TestApplyLayout_CollapsedSubtreeKeepsPositions(t *testing.T) {
	planner := NewPositionPlanner(nil)

	root := makeNode(t, "root", 0, 0)
	folded := makeNode(t, "folded", 100, 100)
	hidden := makeNode(t, "hidden", 42, 24)
	folded.SetCollapsed(true)

	nodes := []*entities.Node{root, folded, hidden}
	edges := []*entities.Edge{
		connect(t, root, folded),
		connect(t, folded, hidden),
	}

	result := planner.ApplyLayout(nodes, edges, LayoutConfig{Strategy: LayoutStrategyLayered})
	require.Len(t, result, 3)

	byTitle := make(map[string]*entities.Node)
	for _, node := range result {
		byTitle[node.Title()] = node
	}
	assert.Greater(t, byTitle["folded"].Position().X(), byTitle["root"].Position().X())
	assert.Equal(t, 42.0, byTitle["hidden"].Position().X(), "nodes under a collapsed ancestor stay put")
	assert.Equal(t, 24.0, byTitle["hidden"].Position().Y())
}

func TestApplyLayout_Layered_Idempotent(t *testing.T) {
	planner := NewPositionPlanner(nil)

	root := makeNode(t, "root", 0, 0)
	a := makeNode(t, "a", 0, 0)
	b := makeNode(t, "b", 0, 0)
	c := makeNode(t, "c", 0, 0)
	nodes := []*entities.Node{root, a, b, c}
	edges := []*entities.Edge{
		connect(t, root, a),
		connect(t, root, b),
		connect(t, a, c),
	}

	first := planner.ApplyLayout(nodes, edges, LayoutConfig{Strategy: LayoutStrategyLayered})
	second := planner.ApplyLayout(first, edges, LayoutConfig{Strategy: LayoutStrategyLayered})

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Position().Equals(second[i].Position()),
			"re-running the layered layout must not move settled nodes")
	}

	// Deeper ranks sit strictly to the right of their predecessors
	byTitle := make(map[string]*entities.Node)
	for _, node := range first {
		byTitle[node.Title()] = node
	}
	assert.Greater(t, byTitle["a"].Position().X(), byTitle["root"].Position().X())
	assert.Greater(t, byTitle["c"].Position().X(), byTitle["a"].Position().X())
}

func TestForceDirectedLayout_Deterministic(t *testing.T) {
	planner := NewPositionPlanner(nil)

	var nodes []*entities.Node
	for i := 0; i < 8; i++ {
		nodes = append(nodes, makeNode(t, "n", 0, 0))
	}
	var edges []*entities.Edge
	for i := 1; i < 8; i++ {
		edges = append(edges, connect(t, nodes[0], nodes[i]))
	}

	config := DefaultForceConfig()
	first := planner.ForceDirectedLayout(nodes, edges, config)
	second := planner.ForceDirectedLayout(nodes, edges, config)

	require.Len(t, first, 8)
	for id, pos := range first {
		assert.True(t, pos.Equals(second[id]), "same seed must reproduce the same layout")
	}
}

func TestForceDirectedLayout_NoOverlap(t *testing.T) {
	planner := NewPositionPlanner(nil)

	var nodes []*entities.Node
	for i := 0; i < 20; i++ {
		nodes = append(nodes, makeNode(t, "n", 0, 0))
	}
	var edges []*entities.Edge
	for i := 1; i < 20; i++ {
		edges = append(edges, connect(t, nodes[(i-1)/3], nodes[i]))
	}

	positions := planner.ForceDirectedLayout(nodes, edges, DefaultForceConfig())
	require.Len(t, positions, 20)

	// Default dimensions 300x150: no two cards may intersect
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a := positions[nodes[i].ID()]
			b := positions[nodes[j].ID()]
			overlapX := math.Abs(a.X()-b.X()) < 300
			overlapY := math.Abs(a.Y()-b.Y()) < 150
			assert.False(t, overlapX && overlapY,
				"nodes %d and %d overlap at (%v,%v) and (%v,%v)", i, j, a.X(), a.Y(), b.X(), b.Y())
		}
	}

	// Output coordinates are integers
	for _, pos := range positions {
		assert.Equal(t, math.Trunc(pos.X()), pos.X())
		assert.Equal(t, math.Trunc(pos.Y()), pos.Y())
	}
}

func TestForceDirectedLayout_SmallGraphs(t *testing.T) {
	planner := NewPositionPlanner(nil)

	assert.Empty(t, planner.ForceDirectedLayout(nil, nil, nil))

	single := makeNode(t, "solo", 123, 456)
	positions := planner.ForceDirectedLayout([]*entities.Node{single}, nil, nil)
	require.Len(t, positions, 1)
	assert.True(t, positions[single.ID()].IsOrigin(), "a single node sits at the origin")
}

func TestRadialMindMapLayout_DepthIncreasesDistance(t *testing.T) {
	planner := NewPositionPlanner(nil)

	root := makeNode(t, "root", 0, 0)
	var level1 []*entities.Node
	var edges []*entities.Edge
	for i := 0; i < 4; i++ {
		child := makeNode(t, "l1", 0, 0)
		level1 = append(level1, child)
		edges = append(edges, connect(t, root, child))
	}
	var level2 []*entities.Node
	for _, parent := range level1 {
		grandchild := makeNode(t, "l2", 0, 0)
		level2 = append(level2, grandchild)
		edges = append(edges, connect(t, parent, grandchild))
	}

	nodes := append([]*entities.Node{root}, append(level1, level2...)...)
	positions := planner.RadialMindMapLayout(nodes, edges, nil)
	require.Len(t, positions, len(nodes))

	origin := positions[root.ID()]
	assert.True(t, origin.IsOrigin(), "a single root sits at the center")

	// Ring 1 children are exactly one base ring out
	for _, child := range level1 {
		assert.InDelta(t, 300.0, positions[child.ID()].DistanceTo(origin), 1e-9)
	}

	// Every child sits strictly farther from the root than its parent
	for i, grandchild := range level2 {
		parentDistance := positions[level1[i].ID()].DistanceTo(origin)
		childDistance := positions[grandchild.ID()].DistanceTo(origin)
		assert.Greater(t, childDistance, parentDistance)
	}
}

func TestRadialMindMapLayout_MultipleRoots(t *testing.T) {
	planner := NewPositionPlanner(nil)

	a := makeNode(t, "a", 0, 0)
	b := makeNode(t, "b", 0, 0)
	c := makeNode(t, "c", 0, 0)

	positions := planner.RadialMindMapLayout([]*entities.Node{a, b, c}, nil, nil)
	require.Len(t, positions, 3)

	// Disconnected roots share an outer circle around the origin
	origin, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)
	for _, node := range []*entities.Node{a, b, c} {
		assert.InDelta(t, 300.0, positions[node.ID()].DistanceTo(origin), 1e-9)
	}
}

func TestRadialMindMapLayout_CyclicGraph(t *testing.T) {
	planner := NewPositionPlanner(nil)

	a := makeNode(t, "a", 0, 0)
	b := makeNode(t, "b", 0, 0)
	edges := []*entities.Edge{
		connect(t, a, b),
		connect(t, b, a),
	}

	positions := planner.RadialMindMapLayout([]*entities.Node{a, b}, edges, nil)
	assert.Len(t, positions, 2, "a rootless cycle still places every node")
}
