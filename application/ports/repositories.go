// Package ports defines the persistence interfaces the application layer
// depends on. The core treats the store as an opaque collaborator: complete
// node/edge collections in, updated ones out, plus a batch position update
// for layout deltas.
package ports

import (
	"context"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// PositionUpdate is one (id, x, y) tuple of a layout delta
type PositionUpdate struct {
	NodeID   valueobjects.NodeID
	Position valueobjects.Position
}

// NodeRepository persists nodes scoped to a canvas
type NodeRepository interface {
	Save(ctx context.Context, canvasID valueobjects.CanvasID, node *entities.Node) error
	FindByID(ctx context.Context, canvasID valueobjects.CanvasID, nodeID valueobjects.NodeID) (*entities.Node, error)
	FindByCanvas(ctx context.Context, canvasID valueobjects.CanvasID) ([]*entities.Node, error)
	Delete(ctx context.Context, canvasID valueobjects.CanvasID, nodeID valueobjects.NodeID) error

	// BatchUpdatePositions applies a layout delta in one round trip
	BatchUpdatePositions(ctx context.Context, canvasID valueobjects.CanvasID, updates []PositionUpdate) error
}

// EdgeRepository persists edges scoped to a canvas
type EdgeRepository interface {
	Save(ctx context.Context, canvasID valueobjects.CanvasID, edge *entities.Edge) error
	FindByCanvas(ctx context.Context, canvasID valueobjects.CanvasID) ([]*entities.Edge, error)
	Delete(ctx context.Context, canvasID valueobjects.CanvasID, edgeID valueobjects.EdgeID) error
}

// SnapshotRepository persists write-once canvas captures
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *entities.Snapshot) error
	FindByCanvas(ctx context.Context, canvasID valueobjects.CanvasID) ([]*entities.Snapshot, error)
	Delete(ctx context.Context, canvasID valueobjects.CanvasID, snapshotID valueobjects.SnapshotID) error
}
