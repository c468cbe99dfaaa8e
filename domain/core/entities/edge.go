package entities

import (
	"time"

	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// EdgeType tags the semantic kind of a connection
type EdgeType string

const (
	// EdgeTypeDefault is the plain parent-to-child connection
	EdgeTypeDefault EdgeType = "default"
	// EdgeTypeReference marks a cross-link that carries no hierarchy meaning
	EdgeTypeReference EdgeType = "reference"
)

// Edge is a directed connection between two nodes. Edges are not required
// to form a tree: a node may have zero, one, or many incoming edges.
type Edge struct {
	id        valueobjects.EdgeID
	sourceID  valueobjects.NodeID
	targetID  valueobjects.NodeID
	edgeType  EdgeType
	createdAt time.Time

	// targetReadCount is display weighting set by the reading surface.
	// Layout and search ignore it but it must round-trip untouched.
	targetReadCount *int
}

// NewEdge creates a new directed edge with validation
func NewEdge(sourceID, targetID valueobjects.NodeID, edgeType EdgeType) (*Edge, error) {
	if sourceID.IsZero() {
		return nil, pkgerrors.NewValidationError("edge source cannot be empty")
	}
	if targetID.IsZero() {
		return nil, pkgerrors.NewValidationError("edge target cannot be empty")
	}
	if edgeType == "" {
		edgeType = EdgeTypeDefault
	}

	return &Edge{
		id:        valueobjects.NewEdgeID(),
		sourceID:  sourceID,
		targetID:  targetID,
		edgeType:  edgeType,
		createdAt: time.Now(),
	}, nil
}

// ReconstructEdge rebuilds an edge from repository data
func ReconstructEdge(
	id valueobjects.EdgeID,
	sourceID, targetID valueobjects.NodeID,
	edgeType EdgeType,
	targetReadCount *int,
	createdAt time.Time,
) (*Edge, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("edge ID cannot be empty")
	}
	if sourceID.IsZero() {
		return nil, pkgerrors.NewValidationError("edge source cannot be empty")
	}
	if targetID.IsZero() {
		return nil, pkgerrors.NewValidationError("edge target cannot be empty")
	}

	edge := &Edge{
		id:        id,
		sourceID:  sourceID,
		targetID:  targetID,
		edgeType:  edgeType,
		createdAt: createdAt,
	}
	if targetReadCount != nil {
		count := *targetReadCount
		edge.targetReadCount = &count
	}
	return edge, nil
}

// ID returns the edge's unique identifier
func (e *Edge) ID() valueobjects.EdgeID {
	return e.id
}

// SourceID returns the source node's ID
func (e *Edge) SourceID() valueobjects.NodeID {
	return e.sourceID
}

// TargetID returns the target node's ID
func (e *Edge) TargetID() valueobjects.NodeID {
	return e.targetID
}

// Type returns the edge's type tag
func (e *Edge) Type() EdgeType {
	return e.edgeType
}

// CreatedAt returns the creation timestamp
func (e *Edge) CreatedAt() time.Time {
	return e.createdAt
}

// TargetReadCount returns the display weighting counter, if set
func (e *Edge) TargetReadCount() (int, bool) {
	if e.targetReadCount == nil {
		return 0, false
	}
	return *e.targetReadCount, true
}

// SetTargetReadCount records the display weighting counter
func (e *Edge) SetTargetReadCount(count int) {
	e.targetReadCount = &count
}

// Connects checks whether the edge touches the given node in either direction
func (e *Edge) Connects(nodeID valueobjects.NodeID) bool {
	return e.sourceID.Equals(nodeID) || e.targetID.Equals(nodeID)
}

// Clone returns a structural deep copy of the edge
func (e *Edge) Clone() *Edge {
	clone := &Edge{
		id:        e.id,
		sourceID:  e.sourceID,
		targetID:  e.targetID,
		edgeType:  e.edgeType,
		createdAt: e.createdAt,
	}
	if e.targetReadCount != nil {
		count := *e.targetReadCount
		clone.targetReadCount = &count
	}
	return clone
}
