package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

func newTestNode(t *testing.T, title string, x, y float64) *entities.Node {
	t.Helper()
	pos, err := valueobjects.NewPosition(x, y)
	require.NoError(t, err)
	node, err := entities.NewNode(title, entities.TextCardData{Content: title}, pos)
	require.NoError(t, err)
	return node
}

func TestNodeStore_SaveAndFind(t *testing.T) {
	store := NewNodeStore()
	ctx := context.Background()
	canvasID := valueobjects.NewCanvasID()

	node := newTestNode(t, "alpha", 10, 20)
	require.NoError(t, store.Save(ctx, canvasID, node))

	found, err := store.FindByID(ctx, canvasID, node.ID())
	require.NoError(t, err)
	assert.Equal(t, "alpha", found.Title())
	assert.Equal(t, 10.0, found.Position().X())

	// The store holds its own copy; mutating the original does not leak in
	moved, err := valueobjects.NewPosition(99, 99)
	require.NoError(t, err)
	node.MoveTo(moved)

	found, err = store.FindByID(ctx, canvasID, node.ID())
	require.NoError(t, err)
	assert.Equal(t, 10.0, found.Position().X())

	// Save replaces by ID
	require.NoError(t, store.Save(ctx, canvasID, node))
	found, err = store.FindByID(ctx, canvasID, node.ID())
	require.NoError(t, err)
	assert.Equal(t, 99.0, found.Position().X())
}

func TestNodeStore_FindByIDMissing(t *testing.T) {
	store := NewNodeStore()
	canvasID := valueobjects.NewCanvasID()

	_, err := store.FindByID(context.Background(), canvasID, valueobjects.NewNodeID())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestNodeStore_FindByCanvasOrder(t *testing.T) {
	store := NewNodeStore()
	ctx := context.Background()
	canvasID := valueobjects.NewCanvasID()
	otherCanvas := valueobjects.NewCanvasID()

	first := newTestNode(t, "first", 0, 0)
	time.Sleep(2 * time.Millisecond)
	second := newTestNode(t, "second", 0, 0)

	require.NoError(t, store.Save(ctx, canvasID, second))
	require.NoError(t, store.Save(ctx, canvasID, first))
	require.NoError(t, store.Save(ctx, otherCanvas, newTestNode(t, "elsewhere", 0, 0)))

	nodes, err := store.FindByCanvas(ctx, canvasID)
	require.NoError(t, err)
	require.Len(t, nodes, 2, "canvases are isolated")
	assert.Equal(t, "first", nodes[0].Title())
	assert.Equal(t, "second", nodes[1].Title())
}

func TestNodeStore_Delete(t *testing.T) {
	store := NewNodeStore()
	ctx := context.Background()
	canvasID := valueobjects.NewCanvasID()

	node := newTestNode(t, "alpha", 0, 0)
	require.NoError(t, store.Save(ctx, canvasID, node))
	require.NoError(t, store.Delete(ctx, canvasID, node.ID()))

	_, err := store.FindByID(ctx, canvasID, node.ID())
	assert.True(t, pkgerrors.IsNotFound(err))

	assert.NoError(t, store.Delete(ctx, canvasID, node.ID()), "deleting twice is fine")
}

func TestNodeStore_BatchUpdatePositions(t *testing.T) {
	store := NewNodeStore()
	ctx := context.Background()
	canvasID := valueobjects.NewCanvasID()

	node := newTestNode(t, "alpha", 0, 0)
	require.NoError(t, store.Save(ctx, canvasID, node))

	target, err := valueobjects.NewPosition(300, -120)
	require.NoError(t, err)
	updates := []ports.PositionUpdate{
		{NodeID: node.ID(), Position: target},
		{NodeID: valueobjects.NewNodeID(), Position: target}, // unknown, skipped
	}
	require.NoError(t, store.BatchUpdatePositions(ctx, canvasID, updates))

	found, err := store.FindByID(ctx, canvasID, node.ID())
	require.NoError(t, err)
	assert.True(t, found.Position().Equals(target))
}

func TestNodeStore_NilNode(t *testing.T) {
	store := NewNodeStore()
	err := store.Save(context.Background(), valueobjects.NewCanvasID(), nil)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestEdgeStore(t *testing.T) {
	store := NewEdgeStore()
	ctx := context.Background()
	canvasID := valueobjects.NewCanvasID()

	source := newTestNode(t, "source", 0, 0)
	target := newTestNode(t, "target", 0, 0)
	edge, err := entities.NewEdge(source.ID(), target.ID(), entities.EdgeTypeDefault)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, canvasID, edge))

	edges, err := store.FindByCanvas(ctx, canvasID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].SourceID().Equals(source.ID()))

	require.NoError(t, store.Delete(ctx, canvasID, edge.ID()))
	edges, err = store.FindByCanvas(ctx, canvasID)
	require.NoError(t, err)
	assert.Empty(t, edges)

	assert.True(t, pkgerrors.IsValidation(store.Save(ctx, canvasID, nil)))
}

func TestSnapshotStore_NewestFirst(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()
	canvasID := valueobjects.NewCanvasID()

	base := time.Now()
	var ids []valueobjects.SnapshotID
	for i := 0; i < 3; i++ {
		snapshot, err := entities.ReconstructSnapshot(
			valueobjects.NewSnapshotID(),
			canvasID,
			base.Add(time.Duration(i)*time.Minute),
			nil,
			nil,
			valueobjects.DefaultViewport(),
		)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, snapshot))
		ids = append(ids, snapshot.ID())
	}

	snapshots, err := store.FindByCanvas(ctx, canvasID)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.True(t, snapshots[0].ID().Equals(ids[2]))
	assert.True(t, snapshots[2].ID().Equals(ids[0]))

	require.NoError(t, store.Delete(ctx, canvasID, ids[2]))
	snapshots, err = store.FindByCanvas(ctx, canvasID)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[0].ID().Equals(ids[1]))
}
