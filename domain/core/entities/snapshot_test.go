package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/core/valueobjects"
)

func snapshotFixture(t *testing.T) (*Snapshot, []*Node) {
	t.Helper()

	text, err := NewNode("alpha", TextCardData{Content: "first"}, mustPosition(t, 0, 0))
	require.NoError(t, err)
	require.NoError(t, text.AddTag("work"))

	video, err := NewNode("beta", VideoCardData{URL: "https://example.com/v"}, mustPosition(t, 100, 0))
	require.NoError(t, err)
	require.NoError(t, video.AddTag("media"))
	require.NoError(t, video.AddTag("work"))

	link, err := NewNode("gamma", LinkCardData{URL: "https://example.com"}, mustPosition(t, 200, 0))
	require.NoError(t, err)

	edgeAB, err := NewEdge(text.ID(), video.ID(), EdgeTypeDefault)
	require.NoError(t, err)
	edgeBC, err := NewEdge(video.ID(), link.ID(), EdgeTypeReference)
	require.NoError(t, err)

	nodes := []*Node{text, video, link}
	snapshot, err := NewSnapshot(valueobjects.NewCanvasID(), nodes, []*Edge{edgeAB, edgeBC}, valueobjects.DefaultViewport())
	require.NoError(t, err)
	return snapshot, nodes
}

func TestNewSnapshot_Metadata(t *testing.T) {
	snapshot, _ := snapshotFixture(t)
	metadata := snapshot.Metadata()

	assert.Equal(t, 3, metadata.NodeCount)
	assert.Equal(t, 2, metadata.EdgeCount)

	// Every card type has an entry, including those with zero occurrences
	assert.Len(t, metadata.CardTypeCounts, len(AllCardTypes()))
	assert.Equal(t, 1, metadata.CardTypeCounts[CardTypeText])
	assert.Equal(t, 1, metadata.CardTypeCounts[CardTypeVideo])
	assert.Equal(t, 1, metadata.CardTypeCounts[CardTypeLink])
	assert.Equal(t, 0, metadata.CardTypeCounts[CardTypeChecklist])
	assert.Equal(t, 0, metadata.CardTypeCounts[CardTypeReminder])

	assert.Equal(t, []string{"media", "work"}, metadata.Tags, "tag union is deduplicated and sorted")
}

func TestNewSnapshot_IsolatedFromLiveGraph(t *testing.T) {
	snapshot, nodes := snapshotFixture(t)

	// Mutating the live node after capture must not leak into the snapshot
	nodes[0].UpdateTitle("mutated")
	nodes[0].MoveTo(mustPosition(t, 999, 999))

	var captured *Node
	for _, node := range snapshot.Nodes() {
		if node.ID().Equals(nodes[0].ID()) {
			captured = node
		}
	}
	require.NotNil(t, captured)
	assert.Equal(t, "alpha", captured.Title())
	assert.Equal(t, 0.0, captured.Position().X())
}

func TestSnapshot_AccessorsReturnCopies(t *testing.T) {
	snapshot, _ := snapshotFixture(t)

	first := snapshot.Nodes()[0]
	first.UpdateTitle("scribbled")

	assert.NotEqual(t, "scribbled", snapshot.Nodes()[0].Title(), "accessor hands out fresh clones")
}

func TestNewSnapshot_EmptyGraph(t *testing.T) {
	snapshot, err := NewSnapshot(valueobjects.NewCanvasID(), nil, nil, valueobjects.DefaultViewport())
	require.NoError(t, err)

	metadata := snapshot.Metadata()
	assert.Equal(t, 0, metadata.NodeCount)
	assert.Equal(t, 0, metadata.EdgeCount)
	assert.Empty(t, metadata.Tags)
}

func TestReconstructSnapshot_Validation(t *testing.T) {
	_, err := ReconstructSnapshot(valueobjects.SnapshotID{}, valueobjects.NewCanvasID(), time.Now(), nil, nil, valueobjects.DefaultViewport())
	assert.Error(t, err)
}
