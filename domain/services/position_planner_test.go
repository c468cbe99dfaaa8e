package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/core/entities"
)

func TestGetNodeAbsolutePosition_Nested(t *testing.T) {
	planner := NewPositionPlanner(nil)

	group := makeNode(t, "group", 100, 100)
	child := makeNode(t, "child", 10, 20)
	require.NoError(t, child.SetParent(group.ID()))

	abs := planner.GetNodeAbsolutePosition(child, []*entities.Node{group, child})
	assert.Equal(t, 110.0, abs.X())
	assert.Equal(t, 120.0, abs.Y())
}

func TestGetNodeAbsolutePosition_ParentCycle(t *testing.T) {
	planner := NewPositionPlanner(nil)

	a := makeNode(t, "a", 10, 0)
	b := makeNode(t, "b", 20, 0)
	require.NoError(t, a.SetParent(b.ID()))
	require.NoError(t, b.SetParent(a.ID()))

	// Malformed parent cycle must terminate rather than recurse forever
	abs := planner.GetNodeAbsolutePosition(a, []*entities.Node{a, b})
	assert.Equal(t, 30.0, abs.X())
}

func TestGetRightmostPosition_EmptyLevel(t *testing.T) {
	planner := NewPositionPlanner(nil)

	source := makeNode(t, "source", 100, 100)
	pos, err := planner.GetRightmostPosition(
		[]*entities.Node{source},
		[]*entities.Node{source},
		nil,
	)
	require.NoError(t, err)

	// Default width 300: right-center 250, plus the 250 spacing
	assert.Equal(t, 500.0, pos.X())
	assert.Equal(t, 100.0, pos.Y(), "an empty level takes the source average Y")
}

func TestGetRightmostPosition_AvoidsOccupiedLevel(t *testing.T) {
	planner := NewPositionPlanner(nil)

	source := makeNode(t, "source", 100, 100)
	occupier := makeNode(t, "occupier", 500, 100)

	pos, err := planner.GetRightmostPosition(
		[]*entities.Node{source},
		[]*entities.Node{source, occupier},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, 500.0, pos.X())

	// The chosen Y must not overlap the occupier's padded footprint
	top := occupier.Position().Y()
	bottom := top + 150 + 120
	overlap := math.Min(pos.Y()+150, bottom) - math.Max(pos.Y(), top)
	assert.LessOrEqual(t, overlap, 0.0)
}

func TestGetRightmostPosition_CongestedLevelUsesNearestGap(t *testing.T) {
	planner := NewPositionPlanner(nil)

	// Occupiers stacked 270 apart cover the whole scan window around the
	// source average Y, and the 120-unit spaces between them are too small
	// for a default-height card with spacing
	source := makeNode(t, "source", 100, 100)
	allNodes := []*entities.Node{
		source,
		makeNode(t, "w", 500, -500),
		makeNode(t, "x", 500, -230),
		makeNode(t, "y", 500, 40),
		makeNode(t, "z", 500, 310),
	}

	pos, err := planner.GetRightmostPosition([]*entities.Node{source}, allNodes, nil)
	require.NoError(t, err)
	assert.Equal(t, 500.0, pos.X())

	// The boundary gap below the cluster is nearer to Y=100 than the one
	// above it: its midpoint is (460+730)/2 = 595, minus half a card height
	assert.Equal(t, 520.0, pos.Y())

	// The fallback position clears every occupied slot proper
	for _, slot := range allNodes[1:] {
		top := slot.Position().Y()
		bottom := top + 150
		overlap := math.Min(pos.Y()+150, bottom) - math.Max(pos.Y(), top)
		assert.LessOrEqual(t, overlap, 0.0)
	}
}

func TestGetRightmostPosition_MultipleSources(t *testing.T) {
	planner := NewPositionPlanner(nil)

	left := makeNode(t, "left", 0, 0)
	right := makeMeasuredNode(t, "right", 400, 200, 300, 150)

	pos, err := planner.GetRightmostPosition(
		[]*entities.Node{left, right},
		[]*entities.Node{left, right},
		nil,
	)
	require.NoError(t, err)

	// Widest right-center wins: 400 + 150 + 250
	assert.Equal(t, 800.0, pos.X())
	assert.Equal(t, 100.0, pos.Y(), "Y is the source average")
}

func TestGetRightmostPosition_NoSources(t *testing.T) {
	planner := NewPositionPlanner(nil)
	_, err := planner.GetRightmostPosition(nil, nil, nil)
	assert.Error(t, err)
}

func TestArrangeChildrenCircular(t *testing.T) {
	planner := NewPositionPlanner(nil)

	parent := makeNode(t, "parent", 100, 100)
	children := []*entities.Node{
		makeNode(t, "c0", 0, 0),
		makeNode(t, "c1", 0, 0),
		makeNode(t, "c2", 0, 0),
		makeNode(t, "c3", 0, 0),
	}

	arranged := planner.ArrangeChildrenCircular(parent, children, 0)
	require.Len(t, arranged, 4)

	// First child sits at 12 o'clock on the default 280 radius
	assert.InDelta(t, 100.0, arranged[0].Position().X(), 1e-9)
	assert.InDelta(t, -180.0, arranged[0].Position().Y(), 1e-9)

	// Second child a quarter turn clockwise
	assert.InDelta(t, 380.0, arranged[1].Position().X(), 1e-9)
	assert.InDelta(t, 100.0, arranged[1].Position().Y(), 1e-9)

	// Every child is exactly one radius from the parent
	for _, child := range arranged {
		assert.InDelta(t, 280.0, child.Position().DistanceTo(parent.Position()), 1e-9)
	}

	// Inputs are not mutated
	assert.Equal(t, 0.0, children[0].Position().X())
}

func TestArrangeChildrenCircular_Empty(t *testing.T) {
	planner := NewPositionPlanner(nil)
	parent := makeNode(t, "parent", 0, 0)

	assert.Empty(t, planner.ArrangeChildrenCircular(parent, nil, 0))
}

func TestGetLayoutBranchPositionUpdates(t *testing.T) {
	planner := NewPositionPlanner(nil)

	source := makeNode(t, "source", 0, 0)
	b := makeNode(t, "b", 0, 0)
	c := makeNode(t, "c", 0, 0)
	d := makeNode(t, "d", 0, 0)
	nodes := []*entities.Node{source, b, c, d}
	edges := []*entities.Edge{
		connect(t, source, b),
		connect(t, source, c),
		connect(t, b, d),
	}

	updates := planner.GetLayoutBranchPositionUpdates([]*entities.Node{source}, nodes, edges)
	require.Len(t, updates, 3, "sources themselves are not repositioned")

	// Level 1 starts one spacing unit past the source's right edge and is
	// stacked around the source Y
	first := updates[b.ID()]
	second := updates[c.ID()]
	assert.Equal(t, 550.0, first.X())
	assert.Equal(t, 550.0, second.X())
	assert.Equal(t, -210.0, first.Y())
	assert.Equal(t, 60.0, second.Y())

	// Level 2 clears level 1 by the widest node plus spacing
	assert.Equal(t, 1100.0, updates[d.ID()].X())
}

func TestGetLayoutBranchPositionUpdates_NoSources(t *testing.T) {
	planner := NewPositionPlanner(nil)
	assert.Empty(t, planner.GetLayoutBranchPositionUpdates(nil, nil, nil))
}
