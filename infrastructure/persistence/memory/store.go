// Package memory provides mutex-guarded in-memory repositories. They back
// local development and tests; production deployments use the DynamoDB
// implementations instead.
package memory

import (
	"context"
	"sort"
	"sync"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// NodeStore is an in-memory ports.NodeRepository
type NodeStore struct {
	mu sync.RWMutex
	// canvas ID -> node ID -> node
	nodes map[string]map[string]*entities.Node
}

// NewNodeStore creates an empty in-memory node store
func NewNodeStore() *NodeStore {
	return &NodeStore{
		nodes: make(map[string]map[string]*entities.Node),
	}
}

// Save stores a copy of the node, inserting or replacing by ID
func (s *NodeStore) Save(_ context.Context, canvasID valueobjects.CanvasID, node *entities.Node) error {
	if node == nil {
		return pkgerrors.NewValidationError("node cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	canvas, ok := s.nodes[canvasID.String()]
	if !ok {
		canvas = make(map[string]*entities.Node)
		s.nodes[canvasID.String()] = canvas
	}
	canvas[node.ID().String()] = node.Clone()
	return nil
}

// FindByID retrieves a node by ID within a canvas
func (s *NodeStore) FindByID(_ context.Context, canvasID valueobjects.CanvasID, nodeID valueobjects.NodeID) (*entities.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[canvasID.String()][nodeID.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node not found: " + nodeID.String())
	}
	return node.Clone(), nil
}

// FindByCanvas retrieves all nodes on a canvas, ordered by creation time
func (s *NodeStore) FindByCanvas(_ context.Context, canvasID valueobjects.CanvasID) ([]*entities.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	canvas := s.nodes[canvasID.String()]
	result := make([]*entities.Node, 0, len(canvas))
	for _, node := range canvas {
		result = append(result, node.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt().Equal(result[j].CreatedAt()) {
			return result[i].CreatedAt().Before(result[j].CreatedAt())
		}
		return result[i].ID().String() < result[j].ID().String()
	})
	return result, nil
}

// Delete removes a node; deleting a missing node is not an error
func (s *NodeStore) Delete(_ context.Context, canvasID valueobjects.CanvasID, nodeID valueobjects.NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.nodes[canvasID.String()], nodeID.String())
	return nil
}

// BatchUpdatePositions applies a layout delta, skipping unknown node IDs
func (s *NodeStore) BatchUpdatePositions(_ context.Context, canvasID valueobjects.CanvasID, updates []ports.PositionUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	canvas := s.nodes[canvasID.String()]
	for _, update := range updates {
		if node, ok := canvas[update.NodeID.String()]; ok {
			node.MoveTo(update.Position)
		}
	}
	return nil
}

// EdgeStore is an in-memory ports.EdgeRepository
type EdgeStore struct {
	mu sync.RWMutex
	// canvas ID -> edge ID -> edge
	edges map[string]map[string]*entities.Edge
}

// NewEdgeStore creates an empty in-memory edge store
func NewEdgeStore() *EdgeStore {
	return &EdgeStore{
		edges: make(map[string]map[string]*entities.Edge),
	}
}

// Save stores a copy of the edge, inserting or replacing by ID
func (s *EdgeStore) Save(_ context.Context, canvasID valueobjects.CanvasID, edge *entities.Edge) error {
	if edge == nil {
		return pkgerrors.NewValidationError("edge cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	canvas, ok := s.edges[canvasID.String()]
	if !ok {
		canvas = make(map[string]*entities.Edge)
		s.edges[canvasID.String()] = canvas
	}
	canvas[edge.ID().String()] = edge.Clone()
	return nil
}

// FindByCanvas retrieves all edges on a canvas, ordered by creation time
func (s *EdgeStore) FindByCanvas(_ context.Context, canvasID valueobjects.CanvasID) ([]*entities.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	canvas := s.edges[canvasID.String()]
	result := make([]*entities.Edge, 0, len(canvas))
	for _, edge := range canvas {
		result = append(result, edge.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt().Equal(result[j].CreatedAt()) {
			return result[i].CreatedAt().Before(result[j].CreatedAt())
		}
		return result[i].ID().String() < result[j].ID().String()
	})
	return result, nil
}

// Delete removes an edge; deleting a missing edge is not an error
func (s *EdgeStore) Delete(_ context.Context, canvasID valueobjects.CanvasID, edgeID valueobjects.EdgeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.edges[canvasID.String()], edgeID.String())
	return nil
}

// SnapshotStore is an in-memory ports.SnapshotRepository
type SnapshotStore struct {
	mu sync.RWMutex
	// canvas ID -> snapshot ID -> snapshot
	snapshots map[string]map[string]*entities.Snapshot
}

// NewSnapshotStore creates an empty in-memory snapshot store
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snapshots: make(map[string]map[string]*entities.Snapshot),
	}
}

// Save stores a snapshot. Snapshots are write-once so the pointer is kept
// as-is; the entity already hands out clones of its graph.
func (s *SnapshotStore) Save(_ context.Context, snapshot *entities.Snapshot) error {
	if snapshot == nil {
		return pkgerrors.NewValidationError("snapshot cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	canvas, ok := s.snapshots[snapshot.CanvasID().String()]
	if !ok {
		canvas = make(map[string]*entities.Snapshot)
		s.snapshots[snapshot.CanvasID().String()] = canvas
	}
	canvas[snapshot.ID().String()] = snapshot
	return nil
}

// FindByCanvas retrieves all snapshots for a canvas, newest first
func (s *SnapshotStore) FindByCanvas(_ context.Context, canvasID valueobjects.CanvasID) ([]*entities.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	canvas := s.snapshots[canvasID.String()]
	result := make([]*entities.Snapshot, 0, len(canvas))
	for _, snapshot := range canvas {
		result = append(result, snapshot)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Timestamp().Equal(result[j].Timestamp()) {
			return result[i].Timestamp().After(result[j].Timestamp())
		}
		return result[i].ID().String() < result[j].ID().String()
	})
	return result, nil
}

// Delete removes a snapshot; deleting a missing snapshot is not an error
func (s *SnapshotStore) Delete(_ context.Context, canvasID valueobjects.CanvasID, snapshotID valueobjects.SnapshotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots[canvasID.String()], snapshotID.String())
	return nil
}
