package aggregates

import (
	"fmt"
	"sort"
	"time"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// Canvas is the aggregate root for one editable node graph. It owns the
// node and edge collections plus the viewport and enforces the consistency
// boundary: every edge endpoint must reference a node in the same canvas.
// Layout and search services read canvas state through accessors and hand
// back new positions; the canvas decides how to merge them.
type Canvas struct {
	id        valueobjects.CanvasID
	name      string
	nodes     map[string]*entities.Node
	edges     map[string]*entities.Edge
	viewport  valueobjects.Viewport
	createdAt time.Time
	updatedAt time.Time
}

// NewCanvas creates an empty canvas
func NewCanvas(name string) (*Canvas, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("canvas name is required")
	}

	now := time.Now()
	return &Canvas{
		id:        valueobjects.NewCanvasID(),
		name:      name,
		nodes:     make(map[string]*entities.Node),
		edges:     make(map[string]*entities.Edge),
		viewport:  valueobjects.DefaultViewport(),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructCanvas rebuilds a canvas from complete repository collections.
// Edge endpoint validation runs against the supplied node set.
func ReconstructCanvas(
	id valueobjects.CanvasID,
	name string,
	nodes []*entities.Node,
	edges []*entities.Edge,
	viewport valueobjects.Viewport,
	createdAt, updatedAt time.Time,
) (*Canvas, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("canvas ID cannot be empty")
	}

	canvas := &Canvas{
		id:        id,
		name:      name,
		nodes:     make(map[string]*entities.Node, len(nodes)),
		edges:     make(map[string]*entities.Edge, len(edges)),
		viewport:  viewport,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}

	for _, node := range nodes {
		if node == nil {
			continue
		}
		canvas.nodes[node.ID().String()] = node
	}
	for _, edge := range edges {
		if edge == nil {
			continue
		}
		if err := canvas.validateEdgeEndpoints(edge); err != nil {
			return nil, err
		}
		canvas.edges[edge.ID().String()] = edge
	}

	return canvas, nil
}

// ID returns the canvas's unique identifier
func (c *Canvas) ID() valueobjects.CanvasID {
	return c.id
}

// Name returns the canvas's display name
func (c *Canvas) Name() string {
	return c.name
}

// Viewport returns the current viewport
func (c *Canvas) Viewport() valueobjects.Viewport {
	return c.viewport
}

// CreatedAt returns the creation timestamp
func (c *Canvas) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns the last modification timestamp
func (c *Canvas) UpdatedAt() time.Time {
	return c.updatedAt
}

// NodeCount returns the number of nodes
func (c *Canvas) NodeCount() int {
	return len(c.nodes)
}

// EdgeCount returns the number of edges
func (c *Canvas) EdgeCount() int {
	return len(c.edges)
}

// GetNode looks up a node by ID
func (c *Canvas) GetNode(id valueobjects.NodeID) (*entities.Node, error) {
	node, exists := c.nodes[id.String()]
	if !exists {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("node %s", id.String()))
	}
	return node, nil
}

// Nodes returns the node collection ordered by creation time then ID, so
// repeated reads of unchanged state see an identical ordering
func (c *Canvas) Nodes() []*entities.Node {
	nodes := make([]*entities.Node, 0, len(c.nodes))
	for _, node := range c.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if !nodes[i].CreatedAt().Equal(nodes[j].CreatedAt()) {
			return nodes[i].CreatedAt().Before(nodes[j].CreatedAt())
		}
		return nodes[i].ID().String() < nodes[j].ID().String()
	})
	return nodes
}

// Edges returns the edge collection ordered by creation time then ID
func (c *Canvas) Edges() []*entities.Edge {
	edges := make([]*entities.Edge, 0, len(c.edges))
	for _, edge := range c.edges {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		if !edges[i].CreatedAt().Equal(edges[j].CreatedAt()) {
			return edges[i].CreatedAt().Before(edges[j].CreatedAt())
		}
		return edges[i].ID().String() < edges[j].ID().String()
	})
	return edges
}

// AddNode adds a node to the canvas
func (c *Canvas) AddNode(node *entities.Node) error {
	if node == nil {
		return pkgerrors.NewValidationError("node cannot be nil")
	}
	if _, exists := c.nodes[node.ID().String()]; exists {
		return pkgerrors.NewValidationError(fmt.Sprintf("node %s already exists", node.ID().String()))
	}

	c.nodes[node.ID().String()] = node
	c.touch()
	return nil
}

// RemoveNode removes a node and every edge touching it
func (c *Canvas) RemoveNode(id valueobjects.NodeID) error {
	if _, exists := c.nodes[id.String()]; !exists {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("node %s", id.String()))
	}

	delete(c.nodes, id.String())
	for edgeID, edge := range c.edges {
		if edge.Connects(id) {
			delete(c.edges, edgeID)
		}
	}
	// Detach children that pointed at the removed group
	for _, node := range c.nodes {
		if node.ParentID().Equals(id) {
			node.ClearParent()
		}
	}
	c.touch()
	return nil
}

// AddEdge adds an edge after checking both endpoints exist on this canvas
func (c *Canvas) AddEdge(edge *entities.Edge) error {
	if edge == nil {
		return pkgerrors.NewValidationError("edge cannot be nil")
	}
	if _, exists := c.edges[edge.ID().String()]; exists {
		return pkgerrors.NewValidationError(fmt.Sprintf("edge %s already exists", edge.ID().String()))
	}
	if err := c.validateEdgeEndpoints(edge); err != nil {
		return err
	}

	c.edges[edge.ID().String()] = edge
	c.touch()
	return nil
}

// RemoveEdge removes an edge by ID
func (c *Canvas) RemoveEdge(id valueobjects.EdgeID) error {
	if _, exists := c.edges[id.String()]; !exists {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("edge %s", id.String()))
	}
	delete(c.edges, id.String())
	c.touch()
	return nil
}

// SetViewport records the visible region
func (c *Canvas) SetViewport(viewport valueobjects.Viewport) {
	c.viewport = viewport
	c.touch()
}

// ApplyPositions merges a layout result back into the canvas. Unknown node
// IDs are skipped: a layout computed against a stale snapshot must not fail
// the whole merge.
func (c *Canvas) ApplyPositions(positions map[valueobjects.NodeID]valueobjects.Position) int {
	applied := 0
	for nodeID, position := range positions {
		node, exists := c.nodes[nodeID.String()]
		if !exists {
			continue
		}
		node.MoveTo(position)
		applied++
	}
	if applied > 0 {
		c.touch()
	}
	return applied
}

func (c *Canvas) validateEdgeEndpoints(edge *entities.Edge) error {
	if _, exists := c.nodes[edge.SourceID().String()]; !exists {
		return pkgerrors.NewNotFoundError(
			fmt.Sprintf("edge %s references missing source node %s", edge.ID().String(), edge.SourceID().String()))
	}
	if _, exists := c.nodes[edge.TargetID().String()]; !exists {
		return pkgerrors.NewNotFoundError(
			fmt.Sprintf("edge %s references missing target node %s", edge.ID().String(), edge.TargetID().String()))
	}
	return nil
}

func (c *Canvas) touch() {
	c.updatedAt = time.Now()
}
