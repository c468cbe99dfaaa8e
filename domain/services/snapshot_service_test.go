package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

func snapshotAt(t *testing.T, canvasID valueobjects.CanvasID, timestamp time.Time) *entities.Snapshot {
	t.Helper()
	snapshot, err := entities.ReconstructSnapshot(
		valueobjects.NewSnapshotID(),
		canvasID,
		timestamp,
		nil,
		nil,
		valueobjects.DefaultViewport(),
	)
	require.NoError(t, err)
	return snapshot
}

func TestSnapshotService_Retention(t *testing.T) {
	assert.Equal(t, DefaultSnapshotRetention, NewSnapshotService().Retention())
	assert.Equal(t, 3, NewSnapshotServiceWithRetention(3).Retention())
	assert.Equal(t, DefaultSnapshotRetention, NewSnapshotServiceWithRetention(0).Retention())
	assert.Equal(t, DefaultSnapshotRetention, NewSnapshotServiceWithRetention(-1).Retention())
}

func TestSnapshotService_CreateSnapshot(t *testing.T) {
	svc := NewSnapshotService()
	canvasID := valueobjects.NewCanvasID()

	node := makeNode(t, "alpha", 0, 0)
	snapshot, err := svc.CreateSnapshot(canvasID, []*entities.Node{node}, nil, valueobjects.DefaultViewport())
	require.NoError(t, err)
	assert.True(t, snapshot.CanvasID().Equals(canvasID))
	assert.Equal(t, 1, snapshot.Metadata().NodeCount)

	_, err = svc.CreateSnapshot(valueobjects.CanvasID{}, nil, nil, valueobjects.DefaultViewport())
	assert.Error(t, err)
}

func TestSnapshotService_PruneOldSnapshots(t *testing.T) {
	svc := NewSnapshotServiceWithRetention(3)
	canvasID := valueobjects.NewCanvasID()

	base := time.Now()
	var snapshots []*entities.Snapshot
	for i := 0; i < 5; i++ {
		snapshots = append(snapshots, snapshotAt(t, canvasID, base.Add(time.Duration(i)*time.Minute)))
	}

	pruned := svc.PruneOldSnapshots(snapshots)
	require.Len(t, pruned, 2)
	// The two oldest are nominated; the newest three stay
	assert.True(t, pruned[0].ID().Equals(snapshots[1].ID()))
	assert.True(t, pruned[1].ID().Equals(snapshots[0].ID()))

	assert.Len(t, snapshots, 5, "input is not mutated")
}

func TestSnapshotService_PruneWithinRetention(t *testing.T) {
	svc := NewSnapshotService()
	canvasID := valueobjects.NewCanvasID()

	var snapshots []*entities.Snapshot
	for i := 0; i < DefaultSnapshotRetention; i++ {
		snapshots = append(snapshots, snapshotAt(t, canvasID, time.Now()))
	}

	assert.Empty(t, svc.PruneOldSnapshots(snapshots))
	assert.Empty(t, svc.PruneOldSnapshots(nil))
}
