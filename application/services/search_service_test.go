package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	domainservices "canvas-backend/domain/services"
	"canvas-backend/infrastructure/persistence/memory"
)

// failingSnapshotRepo rejects every call, standing in for a storage outage
type failingSnapshotRepo struct{}

func (failingSnapshotRepo) Save(context.Context, *entities.Snapshot) error {
	return errors.New("store unavailable")
}

func (failingSnapshotRepo) FindByCanvas(context.Context, valueobjects.CanvasID) ([]*entities.Snapshot, error) {
	return nil, errors.New("store unavailable")
}

func (failingSnapshotRepo) Delete(context.Context, valueobjects.CanvasID, valueobjects.SnapshotID) error {
	return errors.New("store unavailable")
}

func TestSearchService_KeywordIncludesHistory(t *testing.T) {
	nodes := memory.NewNodeStore()
	edges := memory.NewEdgeStore()
	snapshots := memory.NewSnapshotStore()
	svc := NewSearchService(nodes, edges, snapshots, nil, nil)
	ctx := context.Background()
	canvasID := valueobjects.NewCanvasID()

	pos, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)
	current, err := entities.NewNode("project notes", entities.TextCardData{Content: "current plan"}, pos)
	require.NoError(t, err)
	require.NoError(t, nodes.Save(ctx, canvasID, current))

	deleted, err := entities.NewNode("project archive", entities.TextCardData{Content: "old plan"}, pos)
	require.NoError(t, err)
	snapshot, err := entities.NewSnapshot(canvasID, []*entities.Node{deleted}, nil, valueobjects.DefaultViewport())
	require.NoError(t, err)
	require.NoError(t, snapshots.Save(ctx, snapshot))

	results, err := svc.Search(ctx, canvasID, domainservices.SearchQuery{
		Mode: domainservices.SearchModeKeyword,
		Text: "project",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].NodeID.Equals(current.ID()))
	assert.True(t, results[1].NodeID.Equals(deleted.ID()))
	assert.Contains(t, results[1].Snippet, "(historical)")
}

func TestSearchService_KeywordDegradesWithoutSnapshots(t *testing.T) {
	nodes := memory.NewNodeStore()
	edges := memory.NewEdgeStore()
	svc := NewSearchService(nodes, edges, failingSnapshotRepo{}, nil, nil)
	ctx := context.Background()
	canvasID := valueobjects.NewCanvasID()

	pos, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)
	node, err := entities.NewNode("project notes", entities.TextCardData{Content: "current plan"}, pos)
	require.NoError(t, err)
	require.NoError(t, nodes.Save(ctx, canvasID, node))

	// Snapshot listing fails but the current graph still answers
	results, err := svc.Search(ctx, canvasID, domainservices.SearchQuery{
		Mode: domainservices.SearchModeKeyword,
		Text: "project",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].NodeID.Equals(node.ID()))
}

func TestSearchService_RelationshipMode(t *testing.T) {
	nodes := memory.NewNodeStore()
	edges := memory.NewEdgeStore()
	snapshots := memory.NewSnapshotStore()
	svc := NewSearchService(nodes, edges, snapshots, nil, nil)
	ctx := context.Background()
	canvasID := valueobjects.NewCanvasID()

	pos, err := valueobjects.NewPosition(0, 0)
	require.NoError(t, err)
	a, err := entities.NewNode("a", entities.TextCardData{Content: "a"}, pos)
	require.NoError(t, err)
	b, err := entities.NewNode("b", entities.TextCardData{Content: "b"}, pos)
	require.NoError(t, err)
	require.NoError(t, nodes.Save(ctx, canvasID, a))
	require.NoError(t, nodes.Save(ctx, canvasID, b))

	edge, err := entities.NewEdge(a.ID(), b.ID(), entities.EdgeTypeDefault)
	require.NoError(t, err)
	require.NoError(t, edges.Save(ctx, canvasID, edge))

	results, err := svc.Search(ctx, canvasID, domainservices.SearchQuery{
		Mode:         domainservices.SearchModeRelationship,
		SourceNodeID: a.ID(),
		MaxDegree:    1,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].NodeID.Equals(b.ID()))
	assert.Equal(t, 90.0, results[0].Score)
}
