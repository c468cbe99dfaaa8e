package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

func newTestNode(t *testing.T, title string, x, y float64) *entities.Node {
	t.Helper()
	pos, err := valueobjects.NewPosition(x, y)
	require.NoError(t, err)
	node, err := entities.NewNode(title, entities.TextCardData{Content: title}, pos)
	require.NoError(t, err)
	return node
}

func TestCanvas_AddEdge_RequiresEndpoints(t *testing.T) {
	canvas, err := NewCanvas("board")
	require.NoError(t, err)

	a := newTestNode(t, "a", 0, 0)
	b := newTestNode(t, "b", 100, 0)
	require.NoError(t, canvas.AddNode(a))

	edge, err := entities.NewEdge(a.ID(), b.ID(), entities.EdgeTypeDefault)
	require.NoError(t, err)

	assert.Error(t, canvas.AddEdge(edge), "target is not on the canvas")

	require.NoError(t, canvas.AddNode(b))
	require.NoError(t, canvas.AddEdge(edge))
	assert.Equal(t, 1, canvas.EdgeCount())
}

func TestCanvas_RemoveNode_Cascades(t *testing.T) {
	canvas, err := NewCanvas("board")
	require.NoError(t, err)

	parent := newTestNode(t, "parent", 0, 0)
	child := newTestNode(t, "child", 50, 50)
	other := newTestNode(t, "other", 100, 100)
	require.NoError(t, canvas.AddNode(parent))
	require.NoError(t, canvas.AddNode(child))
	require.NoError(t, canvas.AddNode(other))
	require.NoError(t, child.SetParent(parent.ID()))

	edge, err := entities.NewEdge(parent.ID(), other.ID(), entities.EdgeTypeDefault)
	require.NoError(t, err)
	require.NoError(t, canvas.AddEdge(edge))

	require.NoError(t, canvas.RemoveNode(parent.ID()))

	assert.Equal(t, 2, canvas.NodeCount())
	assert.Equal(t, 0, canvas.EdgeCount(), "edges touching the removed node are dropped")

	remaining, err := canvas.GetNode(child.ID())
	require.NoError(t, err)
	assert.False(t, remaining.HasParent(), "children of the removed node are detached")
}

func TestCanvas_Nodes_DeterministicOrder(t *testing.T) {
	canvas, err := NewCanvas("board")
	require.NoError(t, err)

	a := newTestNode(t, "a", 0, 0)
	b := newTestNode(t, "b", 0, 0)
	c := newTestNode(t, "c", 0, 0)
	require.NoError(t, canvas.AddNode(c))
	require.NoError(t, canvas.AddNode(a))
	require.NoError(t, canvas.AddNode(b))

	first := canvas.Nodes()
	second := canvas.Nodes()
	require.Len(t, first, 3)
	for i := range first {
		assert.True(t, first[i].ID().Equals(second[i].ID()), "ordering is stable across calls")
	}
}

func TestCanvas_ApplyPositions(t *testing.T) {
	canvas, err := NewCanvas("board")
	require.NoError(t, err)

	a := newTestNode(t, "a", 0, 0)
	require.NoError(t, canvas.AddNode(a))

	target, err := valueobjects.NewPosition(42, 24)
	require.NoError(t, err)
	unknown := valueobjects.NewNodeID()

	applied := canvas.ApplyPositions(map[valueobjects.NodeID]valueobjects.Position{
		a.ID():  target,
		unknown: target,
	})

	assert.Equal(t, 1, applied, "unknown IDs are skipped")
	moved, err := canvas.GetNode(a.ID())
	require.NoError(t, err)
	assert.Equal(t, 42.0, moved.Position().X())
}
