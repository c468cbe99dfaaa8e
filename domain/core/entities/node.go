package entities

import (
	"fmt"
	"strings"
	"time"

	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// Node is the main entity representing a positioned, typed content card.
// This is a rich domain model with encapsulated business logic; layout and
// search code consume it through its accessors and never mutate it in place.
type Node struct {
	id         valueobjects.NodeID
	cardType   CardType
	title      string
	position   valueobjects.Position
	dimensions valueobjects.Dimensions
	data       CardData
	tags       []string
	parentID   valueobjects.NodeID // zero when the node is not nested in a group
	collapsed  bool
	createdAt  time.Time
}

// NewNode creates a new node with full business rule validation.
// The discriminant is taken from the payload, so the invariant that
// cardType matches the data variant holds by construction.
func NewNode(title string, data CardData, position valueobjects.Position) (*Node, error) {
	if data == nil {
		return nil, pkgerrors.NewValidationError("card data cannot be nil")
	}

	return &Node{
		id:        valueobjects.NewNodeID(),
		cardType:  data.CardType(),
		title:     title,
		position:  position,
		data:      data.Clone(),
		tags:      []string{},
		createdAt: time.Now(),
	}, nil
}

// ReconstructNode rebuilds a node from repository data with preserved identity
// and timestamps
func ReconstructNode(
	id valueobjects.NodeID,
	cardType CardType,
	title string,
	position valueobjects.Position,
	dimensions valueobjects.Dimensions,
	data CardData,
	tags []string,
	parentID valueobjects.NodeID,
	createdAt time.Time,
) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node ID cannot be empty")
	}
	if data == nil {
		return nil, pkgerrors.NewValidationError("card data cannot be nil")
	}
	if data.CardType() != cardType {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("card type mismatch: node is %q but payload is %q", cardType, data.CardType()))
	}

	tagsCopy := make([]string, len(tags))
	copy(tagsCopy, tags)

	return &Node{
		id:         id,
		cardType:   cardType,
		title:      title,
		position:   position,
		dimensions: dimensions,
		data:       data.Clone(),
		tags:       tagsCopy,
		parentID:   parentID,
		createdAt:  createdAt,
	}, nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// CardType returns the discriminant selecting the payload shape
func (n *Node) CardType() CardType {
	return n.cardType
}

// Title returns the node's title
func (n *Node) Title() string {
	return n.title
}

// Position returns the node's stored position. When the node has a parent
// group the position is relative to that group.
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// Dimensions returns the node's measured dimensions, zero when unmeasured
func (n *Node) Dimensions() valueobjects.Dimensions {
	return n.dimensions
}

// Data returns a copy of the type-specific payload
func (n *Node) Data() CardData {
	return n.data.Clone()
}

// Tags returns a copy of the node's tags
func (n *Node) Tags() []string {
	tags := make([]string, len(n.tags))
	copy(tags, n.tags)
	return tags
}

// ParentID returns the containing group's node ID, zero when top-level
func (n *Node) ParentID() valueobjects.NodeID {
	return n.parentID
}

// HasParent checks whether the node is nested inside a group
func (n *Node) HasParent() bool {
	return !n.parentID.IsZero()
}

// IsCollapsed reports whether the node hides its descendants
func (n *Node) IsCollapsed() bool {
	return n.collapsed
}

// CreatedAt returns the creation timestamp
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// UpdateTitle changes the node's title
func (n *Node) UpdateTitle(title string) {
	n.title = title
}

// UpdateData replaces the payload, enforcing the discriminant invariant
func (n *Node) UpdateData(data CardData) error {
	if data == nil {
		return pkgerrors.NewValidationError("card data cannot be nil")
	}
	if data.CardType() != n.cardType {
		return pkgerrors.NewValidationError(
			fmt.Sprintf("card type mismatch: node is %q but payload is %q", n.cardType, data.CardType()))
	}
	n.data = data.Clone()
	return nil
}

// MoveTo updates the node's stored position
func (n *Node) MoveTo(position valueobjects.Position) {
	n.position = position
}

// Resize records the node's measured dimensions
func (n *Node) Resize(dimensions valueobjects.Dimensions) {
	n.dimensions = dimensions
}

// SetParent nests the node inside a group node
func (n *Node) SetParent(parentID valueobjects.NodeID) error {
	if parentID.Equals(n.id) {
		return pkgerrors.NewValidationError("node cannot be its own parent")
	}
	n.parentID = parentID
	return nil
}

// ClearParent detaches the node from its group
func (n *Node) ClearParent() {
	n.parentID = valueobjects.NodeID{}
}

// SetCollapsed toggles descendant visibility
func (n *Node) SetCollapsed(collapsed bool) {
	n.collapsed = collapsed
}

// AddTag adds a tag if not already present
func (n *Node) AddTag(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return pkgerrors.NewValidationError("tag cannot be empty")
	}
	for _, existing := range n.tags {
		if existing == tag {
			return nil
		}
	}
	n.tags = append(n.tags, tag)
	return nil
}

// RemoveTag removes a tag if present
func (n *Node) RemoveTag(tag string) {
	for i, existing := range n.tags {
		if existing == tag {
			n.tags = append(n.tags[:i], n.tags[i+1:]...)
			return
		}
	}
}

// Clone returns a structural deep copy of the node
func (n *Node) Clone() *Node {
	tags := make([]string, len(n.tags))
	copy(tags, n.tags)

	return &Node{
		id:         n.id,
		cardType:   n.cardType,
		title:      n.title,
		position:   n.position,
		dimensions: n.dimensions,
		data:       n.data.Clone(),
		tags:       tags,
		parentID:   n.parentID,
		collapsed:  n.collapsed,
		createdAt:  n.createdAt,
	}
}

// WithPosition returns a copy of the node moved to the given position.
// Layout algorithms use this to produce updated node collections without
// mutating their inputs.
func (n *Node) WithPosition(position valueobjects.Position) *Node {
	clone := n.Clone()
	clone.position = position
	return clone
}
