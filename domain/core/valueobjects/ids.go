package valueobjects

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "canvas-backend/pkg/errors"
)

// NodeID is a value object representing a node's unique identifier
type NodeID struct {
	value string
}

// NewNodeID generates a new unique node ID
func NewNodeID() NodeID {
	return NodeID{value: uuid.New().String()}
}

// NewNodeIDFromString creates a NodeID from an existing string with validation
func NewNodeIDFromString(s string) (NodeID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NodeID{}, pkgerrors.NewValidationError("node ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return NodeID{}, pkgerrors.NewValidationError("node ID must be a valid UUID")
	}
	return NodeID{value: s}, nil
}

// String returns the string representation
func (id NodeID) String() string {
	return id.value
}

// IsZero checks if this is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// Equals checks equality with another NodeID
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// EdgeID is a value object representing an edge's unique identifier
type EdgeID struct {
	value string
}

// NewEdgeID generates a new unique edge ID
func NewEdgeID() EdgeID {
	return EdgeID{value: uuid.New().String()}
}

// NewEdgeIDFromString creates an EdgeID from an existing string with validation
func NewEdgeIDFromString(s string) (EdgeID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EdgeID{}, pkgerrors.NewValidationError("edge ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return EdgeID{}, pkgerrors.NewValidationError("edge ID must be a valid UUID")
	}
	return EdgeID{value: s}, nil
}

// String returns the string representation
func (id EdgeID) String() string {
	return id.value
}

// IsZero checks if this is the zero value
func (id EdgeID) IsZero() bool {
	return id.value == ""
}

// Equals checks equality with another EdgeID
func (id EdgeID) Equals(other EdgeID) bool {
	return id.value == other.value
}

// CanvasID is a value object identifying the canvas a node collection belongs to
type CanvasID struct {
	value string
}

// NewCanvasID generates a new unique canvas ID
func NewCanvasID() CanvasID {
	return CanvasID{value: uuid.New().String()}
}

// NewCanvasIDFromString creates a CanvasID from an existing string with validation
func NewCanvasIDFromString(s string) (CanvasID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CanvasID{}, pkgerrors.NewValidationError("canvas ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return CanvasID{}, pkgerrors.NewValidationError("canvas ID must be a valid UUID")
	}
	return CanvasID{value: s}, nil
}

// String returns the string representation
func (id CanvasID) String() string {
	return id.value
}

// IsZero checks if this is the zero value
func (id CanvasID) IsZero() bool {
	return id.value == ""
}

// Equals checks equality with another CanvasID
func (id CanvasID) Equals(other CanvasID) bool {
	return id.value == other.value
}

// SnapshotID is a value object identifying a point-in-time canvas capture
type SnapshotID struct {
	value string
}

// NewSnapshotID generates a new unique snapshot ID
func NewSnapshotID() SnapshotID {
	return SnapshotID{value: uuid.New().String()}
}

// NewSnapshotIDFromString creates a SnapshotID from an existing string with validation
func NewSnapshotIDFromString(s string) (SnapshotID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SnapshotID{}, pkgerrors.NewValidationError("snapshot ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return SnapshotID{}, pkgerrors.NewValidationError("snapshot ID must be a valid UUID")
	}
	return SnapshotID{value: s}, nil
}

// String returns the string representation
func (id SnapshotID) String() string {
	return id.value
}

// IsZero checks if this is the zero value
func (id SnapshotID) IsZero() bool {
	return id.value == ""
}

// Equals checks equality with another SnapshotID
func (id SnapshotID) Equals(other SnapshotID) bool {
	return id.value == other.value
}
