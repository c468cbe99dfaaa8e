package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"canvas-backend/application/ports"
	"canvas-backend/domain/core/aggregates"
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	domainservices "canvas-backend/domain/services"
	pkgerrors "canvas-backend/pkg/errors"
	"canvas-backend/pkg/observability"
)

// GrowMode selects how externally produced children are arranged
type GrowMode string

const (
	// GrowModeCircular rings the children around their parent
	GrowModeCircular GrowMode = "circular"
	// GrowModeBranch re-flows the new subtree with the layered solver
	GrowModeBranch GrowMode = "branch"
)

// CanvasService owns the session-level graph state flow: it fetches the
// complete node/edge collections, runs the pure layout functions over them
// and merges the results back through the store. Position persistence is
// fire-and-forget: a failed batch update is logged, never retried, and the
// computed positions are still returned to the caller.
type CanvasService struct {
	nodes       ports.NodeRepository
	edges       ports.EdgeRepository
	snapshots   ports.SnapshotRepository
	planner     *domainservices.PositionPlanner
	snapshotSvc *domainservices.SnapshotService
	metrics     *observability.Collector
	logger      *zap.Logger
}

// NewCanvasService creates a canvas service
func NewCanvasService(
	nodes ports.NodeRepository,
	edges ports.EdgeRepository,
	snapshots ports.SnapshotRepository,
	planner *domainservices.PositionPlanner,
	snapshotSvc *domainservices.SnapshotService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *CanvasService {
	if planner == nil {
		planner = domainservices.NewPositionPlanner(nil)
	}
	if snapshotSvc == nil {
		snapshotSvc = domainservices.NewSnapshotService()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CanvasService{
		nodes:       nodes,
		edges:       edges,
		snapshots:   snapshots,
		planner:     planner,
		snapshotSvc: snapshotSvc,
		metrics:     metrics,
		logger:      logger,
	}
}

// CreateNode builds and persists a new node on a canvas
func (s *CanvasService) CreateNode(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	title string,
	data entities.CardData,
	position valueobjects.Position,
	tags []string,
) (*entities.Node, error) {
	node, err := entities.NewNode(title, data, position)
	if err != nil {
		return nil, err
	}
	for _, tag := range tags {
		if err := node.AddTag(tag); err != nil {
			return nil, err
		}
	}
	if err := s.nodes.Save(ctx, canvasID, node); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to store node")
	}
	return node, nil
}

// GetNode retrieves one node by ID
func (s *CanvasService) GetNode(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	nodeID valueobjects.NodeID,
) (*entities.Node, error) {
	return s.nodes.FindByID(ctx, canvasID, nodeID)
}

// DeleteNode removes a node, letting the aggregate work out the cascade:
// incident edges are dropped and children of the removed group are detached
func (s *CanvasService) DeleteNode(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	nodeID valueobjects.NodeID,
) error {
	canvas, err := s.loadCanvas(ctx, canvasID)
	if err != nil {
		return err
	}
	if _, err := canvas.GetNode(nodeID); err != nil {
		return err
	}

	// Record what RemoveNode is about to touch so the delta can be persisted
	var staleEdges []valueobjects.EdgeID
	for _, edge := range canvas.Edges() {
		if edge.Connects(nodeID) {
			staleEdges = append(staleEdges, edge.ID())
		}
	}
	var detached []*entities.Node
	for _, node := range canvas.Nodes() {
		if node.ParentID().Equals(nodeID) {
			detached = append(detached, node)
		}
	}

	if err := canvas.RemoveNode(nodeID); err != nil {
		return err
	}

	for _, edgeID := range staleEdges {
		if err := s.edges.Delete(ctx, canvasID, edgeID); err != nil {
			return pkgerrors.Wrap(err, "failed to delete incident edge")
		}
	}
	for _, child := range detached {
		if err := s.nodes.Save(ctx, canvasID, child); err != nil {
			return pkgerrors.Wrap(err, "failed to detach child node")
		}
	}
	return s.nodes.Delete(ctx, canvasID, nodeID)
}

// CreateEdge connects two existing nodes on a canvas. Endpoint existence is
// the aggregate's consistency rule, so the edge goes through AddEdge before
// it reaches the store.
func (s *CanvasService) CreateEdge(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	sourceID, targetID valueobjects.NodeID,
	edgeType entities.EdgeType,
) (*entities.Edge, error) {
	canvas, err := s.loadCanvas(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	edge, err := entities.NewEdge(sourceID, targetID, edgeType)
	if err != nil {
		return nil, err
	}
	if err := canvas.AddEdge(edge); err != nil {
		return nil, err
	}
	if err := s.edges.Save(ctx, canvasID, edge); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to store edge")
	}
	return edge, nil
}

// DeleteEdge removes one edge
func (s *CanvasService) DeleteEdge(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	edgeID valueobjects.EdgeID,
) error {
	return s.edges.Delete(ctx, canvasID, edgeID)
}

// GetGraph returns the complete node and edge collections for a canvas
func (s *CanvasService) GetGraph(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
) ([]*entities.Node, []*entities.Edge, error) {
	return s.loadGraph(ctx, canvasID)
}

// PlaceNewNode computes the gap-aware position for one new node created
// from the given source nodes. It does not create the node; the caller
// persists it with the returned position.
func (s *CanvasService) PlaceNewNode(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	sourceNodeIDs []valueobjects.NodeID,
) (valueobjects.Position, error) {
	allNodes, allEdges, err := s.loadGraph(ctx, canvasID)
	if err != nil {
		return valueobjects.Position{}, err
	}

	sources, err := resolveNodes(allNodes, sourceNodeIDs)
	if err != nil {
		return valueobjects.Position{}, err
	}

	return s.planner.GetRightmostPosition(sources, allNodes, allEdges)
}

// GrowChildren re-lays-out child nodes that an external producer attached
// to a parent, then persists the delta. The service has no knowledge of how
// the children were generated.
func (s *CanvasService) GrowChildren(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	parentID valueobjects.NodeID,
	childIDs []valueobjects.NodeID,
	mode GrowMode,
) ([]ports.PositionUpdate, error) {
	allNodes, allEdges, err := s.loadGraph(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	parents, err := resolveNodes(allNodes, []valueobjects.NodeID{parentID})
	if err != nil {
		return nil, err
	}
	parent := parents[0]

	children, err := resolveNodes(allNodes, childIDs)
	if err != nil {
		return nil, err
	}

	var updates []ports.PositionUpdate
	switch mode {
	case GrowModeCircular:
		for _, arranged := range s.planner.ArrangeChildrenCircular(parent, children, 0) {
			updates = append(updates, ports.PositionUpdate{NodeID: arranged.ID(), Position: arranged.Position()})
		}
	case GrowModeBranch:
		branch := append([]*entities.Node{parent}, children...)
		positions := s.planner.LayoutBranch(branch, allEdges, []*entities.Node{parent}, domainservices.BranchOptions{})
		for nodeID, position := range positions {
			updates = append(updates, ports.PositionUpdate{NodeID: nodeID, Position: position})
		}
	default:
		return nil, pkgerrors.NewValidationError("unknown grow mode")
	}

	s.persistPositions(ctx, canvasID, updates)
	return updates, nil
}

// Relayout re-flows the whole canvas under the given strategy and persists
// the resulting delta. Layout failures are fail-open by contract, so the
// returned collection is at worst the unchanged input.
func (s *CanvasService) Relayout(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	config domainservices.LayoutConfig,
) ([]*entities.Node, error) {
	allNodes, allEdges, err := s.loadGraph(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	updated := s.planner.ApplyLayout(allNodes, allEdges, config)

	var updates []ports.PositionUpdate
	byID := make(map[valueobjects.NodeID]*entities.Node, len(allNodes))
	for _, node := range allNodes {
		byID[node.ID()] = node
	}
	for _, node := range updated {
		if previous, exists := byID[node.ID()]; exists && !previous.Position().Equals(node.Position()) {
			updates = append(updates, ports.PositionUpdate{NodeID: node.ID(), Position: node.Position()})
		}
	}

	s.persistPositions(ctx, canvasID, updates)
	return updated, nil
}

// StackBranch assigns level-by-level positions to everything reachable
// forward from the given sources and persists the partial delta
func (s *CanvasService) StackBranch(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	sourceNodeIDs []valueobjects.NodeID,
) ([]ports.PositionUpdate, error) {
	allNodes, allEdges, err := s.loadGraph(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	sources, err := resolveNodes(allNodes, sourceNodeIDs)
	if err != nil {
		return nil, err
	}

	positions := s.planner.GetLayoutBranchPositionUpdates(sources, allNodes, allEdges)
	updates := make([]ports.PositionUpdate, 0, len(positions))
	for nodeID, position := range positions {
		updates = append(updates, ports.PositionUpdate{NodeID: nodeID, Position: position})
	}

	s.persistPositions(ctx, canvasID, updates)
	return updates, nil
}

// CaptureSnapshot captures the current canvas state, stores it and prunes
// captures beyond the retention bound
func (s *CanvasService) CaptureSnapshot(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	viewport valueobjects.Viewport,
) (*entities.Snapshot, error) {
	allNodes, allEdges, err := s.loadGraph(ctx, canvasID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshotSvc.CreateSnapshot(canvasID, allNodes, allEdges, viewport)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to store snapshot")
	}

	existing, err := s.snapshots.FindByCanvas(ctx, canvasID)
	if err != nil {
		s.logger.Warn("snapshot prune skipped: listing failed",
			zap.String("canvas_id", canvasID.String()),
			zap.Error(err))
		return snapshot, nil
	}
	pruned := 0
	for _, stale := range s.snapshotSvc.PruneOldSnapshots(existing) {
		if err := s.snapshots.Delete(ctx, canvasID, stale.ID()); err != nil {
			s.logger.Warn("failed to delete stale snapshot",
				zap.String("canvas_id", canvasID.String()),
				zap.String("snapshot_id", stale.ID().String()),
				zap.Error(err))
			continue
		}
		pruned++
	}
	if pruned > 0 && s.metrics != nil {
		s.metrics.SnapshotsPruned.Add(float64(pruned))
	}

	return snapshot, nil
}

// ListSnapshots returns the stored snapshots for a canvas, newest first
func (s *CanvasService) ListSnapshots(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
) ([]*entities.Snapshot, error) {
	snapshots, err := s.snapshots.FindByCanvas(ctx, canvasID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to list snapshots")
	}
	return snapshots, nil
}

// loadGraph fetches a canvas and flattens it back to the node and edge
// collections the layout and search functions take
func (s *CanvasService) loadGraph(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
) ([]*entities.Node, []*entities.Edge, error) {
	canvas, err := s.loadCanvas(ctx, canvasID)
	if err != nil {
		return nil, nil, err
	}
	return canvas.Nodes(), canvas.Edges(), nil
}

// loadCanvas rebuilds the aggregate from the stored collections. The store
// keeps no canvas metadata row, so name, viewport and timestamps are
// placeholders. Edges that lost an endpoint to an interrupted cascade delete
// are dropped with a warning rather than failing the whole load.
func (s *CanvasService) loadCanvas(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
) (*aggregates.Canvas, error) {
	allNodes, err := s.nodes.FindByCanvas(ctx, canvasID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load nodes")
	}
	allEdges, err := s.edges.FindByCanvas(ctx, canvasID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load edges")
	}

	known := make(map[valueobjects.NodeID]bool, len(allNodes))
	for _, node := range allNodes {
		known[node.ID()] = true
	}
	kept := make([]*entities.Edge, 0, len(allEdges))
	for _, edge := range allEdges {
		if !known[edge.SourceID()] || !known[edge.TargetID()] {
			s.logger.Warn("dropping edge with missing endpoint",
				zap.String("canvas_id", canvasID.String()),
				zap.String("edge_id", edge.ID().String()))
			continue
		}
		kept = append(kept, edge)
	}

	now := time.Now()
	canvas, err := aggregates.ReconstructCanvas(
		canvasID, canvasID.String(), allNodes, kept, valueobjects.DefaultViewport(), now, now)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to rebuild canvas")
	}
	return canvas, nil
}

// persistPositions writes a layout delta without surfacing store failures;
// the delta is already computed and the caller keeps it either way
func (s *CanvasService) persistPositions(
	ctx context.Context,
	canvasID valueobjects.CanvasID,
	updates []ports.PositionUpdate,
) {
	if len(updates) == 0 {
		return
	}
	if err := s.nodes.BatchUpdatePositions(ctx, canvasID, updates); err != nil {
		s.logger.Warn("failed to persist position updates",
			zap.String("canvas_id", canvasID.String()),
			zap.Int("update_count", len(updates)),
			zap.Error(err))
	}
}

// resolveNodes maps IDs to nodes from a loaded collection
func resolveNodes(
	allNodes []*entities.Node,
	ids []valueobjects.NodeID,
) ([]*entities.Node, error) {
	byID := make(map[valueobjects.NodeID]*entities.Node, len(allNodes))
	for _, node := range allNodes {
		byID[node.ID()] = node
	}

	resolved := make([]*entities.Node, 0, len(ids))
	for _, id := range ids {
		node, exists := byID[id]
		if !exists {
			return nil, pkgerrors.NewNotFoundError("node " + id.String())
		}
		resolved = append(resolved, node)
	}
	return resolved, nil
}
