package entities

import (
	"sort"
	"time"

	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// SnapshotMetadata summarizes a captured canvas state
type SnapshotMetadata struct {
	NodeCount      int
	EdgeCount      int
	CardTypeCounts map[CardType]int
	Tags           []string // union of all node tags, sorted
}

// Snapshot is an immutable point-in-time capture of a canvas: nodes, edges
// and viewport, deep-cloned at creation so later edits to the live graph
// cannot leak into history. Snapshots are write-once; they are only ever
// created and deleted.
type Snapshot struct {
	id        valueobjects.SnapshotID
	canvasID  valueobjects.CanvasID
	timestamp time.Time
	nodes     []*Node
	edges     []*Edge
	viewport  valueobjects.Viewport
	metadata  SnapshotMetadata
}

// NewSnapshot captures the given canvas state. An empty graph produces a
// snapshot with zero counts rather than an error.
func NewSnapshot(
	canvasID valueobjects.CanvasID,
	nodes []*Node,
	edges []*Edge,
	viewport valueobjects.Viewport,
) (*Snapshot, error) {
	if canvasID.IsZero() {
		return nil, pkgerrors.NewValidationError("canvas ID cannot be empty")
	}

	return ReconstructSnapshot(
		valueobjects.NewSnapshotID(),
		canvasID,
		time.Now(),
		nodes,
		edges,
		viewport,
	)
}

// ReconstructSnapshot rebuilds a snapshot from repository data. Metadata is
// always derived from the captured nodes, never trusted from storage.
func ReconstructSnapshot(
	id valueobjects.SnapshotID,
	canvasID valueobjects.CanvasID,
	timestamp time.Time,
	nodes []*Node,
	edges []*Edge,
	viewport valueobjects.Viewport,
) (*Snapshot, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("snapshot ID cannot be empty")
	}
	if canvasID.IsZero() {
		return nil, pkgerrors.NewValidationError("canvas ID cannot be empty")
	}

	clonedNodes := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		if node == nil {
			continue
		}
		clonedNodes = append(clonedNodes, node.Clone())
	}

	clonedEdges := make([]*Edge, 0, len(edges))
	for _, edge := range edges {
		if edge == nil {
			continue
		}
		clonedEdges = append(clonedEdges, edge.Clone())
	}

	return &Snapshot{
		id:        id,
		canvasID:  canvasID,
		timestamp: timestamp,
		nodes:     clonedNodes,
		edges:     clonedEdges,
		viewport:  viewport,
		metadata:  deriveSnapshotMetadata(clonedNodes, clonedEdges),
	}, nil
}

// deriveSnapshotMetadata computes counts per card type and the sorted tag union
func deriveSnapshotMetadata(nodes []*Node, edges []*Edge) SnapshotMetadata {
	counts := make(map[CardType]int)
	for _, cardType := range AllCardTypes() {
		counts[cardType] = 0
	}

	tagSet := make(map[string]bool)
	for _, node := range nodes {
		counts[node.CardType()]++
		for _, tag := range node.Tags() {
			tagSet[tag] = true
		}
	}

	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return SnapshotMetadata{
		NodeCount:      len(nodes),
		EdgeCount:      len(edges),
		CardTypeCounts: counts,
		Tags:           tags,
	}
}

// ID returns the snapshot's unique identifier
func (s *Snapshot) ID() valueobjects.SnapshotID {
	return s.id
}

// CanvasID returns the captured canvas's ID
func (s *Snapshot) CanvasID() valueobjects.CanvasID {
	return s.canvasID
}

// Timestamp returns the capture time
func (s *Snapshot) Timestamp() time.Time {
	return s.timestamp
}

// Nodes returns deep copies of the captured nodes, preserving immutability
func (s *Snapshot) Nodes() []*Node {
	nodes := make([]*Node, len(s.nodes))
	for i, node := range s.nodes {
		nodes[i] = node.Clone()
	}
	return nodes
}

// Edges returns deep copies of the captured edges
func (s *Snapshot) Edges() []*Edge {
	edges := make([]*Edge, len(s.edges))
	for i, edge := range s.edges {
		edges[i] = edge.Clone()
	}
	return edges
}

// Viewport returns the captured viewport
func (s *Snapshot) Viewport() valueobjects.Viewport {
	return s.viewport
}

// Metadata returns the derived summary metadata
func (s *Snapshot) Metadata() SnapshotMetadata {
	counts := make(map[CardType]int, len(s.metadata.CardTypeCounts))
	for cardType, count := range s.metadata.CardTypeCounts {
		counts[cardType] = count
	}
	tags := make([]string, len(s.metadata.Tags))
	copy(tags, s.metadata.Tags)

	return SnapshotMetadata{
		NodeCount:      s.metadata.NodeCount,
		EdgeCount:      s.metadata.EdgeCount,
		CardTypeCounts: counts,
		Tags:           tags,
	}
}
