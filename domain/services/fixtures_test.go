package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

func makeNode(t *testing.T, title string, x, y float64) *entities.Node {
	t.Helper()
	pos, err := valueobjects.NewPosition(x, y)
	require.NoError(t, err)
	node, err := entities.NewNode(title, entities.TextCardData{Content: title}, pos)
	require.NoError(t, err)
	return node
}

func makeMeasuredNode(t *testing.T, title string, x, y, width, height float64) *entities.Node {
	t.Helper()
	node := makeNode(t, title, x, y)
	dims, err := valueobjects.NewDimensions(width, height)
	require.NoError(t, err)
	node.Resize(dims)
	return node
}

func connect(t *testing.T, source, target *entities.Node) *entities.Edge {
	t.Helper()
	edge, err := entities.NewEdge(source.ID(), target.ID(), entities.EdgeTypeDefault)
	require.NoError(t, err)
	return edge
}

func idsOf(nodes []*entities.Node) []valueobjects.NodeID {
	ids := make([]valueobjects.NodeID, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.ID())
	}
	return ids
}

func containsID(ids []valueobjects.NodeID, id valueobjects.NodeID) bool {
	for _, candidate := range ids {
		if candidate.Equals(id) {
			return true
		}
	}
	return false
}
