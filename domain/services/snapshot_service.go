package services

import (
	"sort"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// DefaultSnapshotRetention is the maximum number of snapshots kept per canvas
const DefaultSnapshotRetention = 5

// SnapshotService captures point-in-time canvas state and enforces the
// retention bound. Snapshots are write-once: the service only ever creates
// them and nominates old ones for deletion; the persistence collaborator
// performs the actual delete.
type SnapshotService struct {
	retention int
}

// NewSnapshotService creates a snapshot service with the default retention
func NewSnapshotService() *SnapshotService {
	return &SnapshotService{retention: DefaultSnapshotRetention}
}

// NewSnapshotServiceWithRetention creates a snapshot service with a custom
// retention bound
func NewSnapshotServiceWithRetention(retention int) *SnapshotService {
	if retention < 1 {
		retention = DefaultSnapshotRetention
	}
	return &SnapshotService{retention: retention}
}

// Retention returns the maximum retained snapshot count
func (s *SnapshotService) Retention() int {
	return s.retention
}

// CreateSnapshot deep-clones the given canvas state into an immutable
// capture with derived metadata. An empty graph produces a snapshot with
// zero counts rather than failing.
func (s *SnapshotService) CreateSnapshot(
	canvasID valueobjects.CanvasID,
	nodes []*entities.Node,
	edges []*entities.Edge,
	viewport valueobjects.Viewport,
) (*entities.Snapshot, error) {
	return entities.NewSnapshot(canvasID, nodes, edges, viewport)
}

// PruneOldSnapshots returns the snapshots that fall beyond the retention
// bound, oldest first, for the caller to delete. The newest snapshots up to
// the bound are kept. The input is not mutated.
func (s *SnapshotService) PruneOldSnapshots(snapshots []*entities.Snapshot) []*entities.Snapshot {
	if len(snapshots) <= s.retention {
		return []*entities.Snapshot{}
	}

	sorted := make([]*entities.Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp().After(sorted[j].Timestamp())
	})

	return sorted[s.retention:]
}
