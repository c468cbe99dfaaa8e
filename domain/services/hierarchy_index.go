package services

import (
	"fmt"
	"sort"
	"strings"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
	pkgerrors "canvas-backend/pkg/errors"
)

// HierarchyEntry is one node's slot in the derived parent-to-children forest.
// Entries are built fresh from an edge list and never persisted.
type HierarchyEntry struct {
	NodeID   valueobjects.NodeID
	Children []*HierarchyEntry
}

// HierarchyIndex derives a parent-to-children forest view from a flat edge
// list and answers descendant, ancestor and collapse-visibility queries.
// Every edge is treated as a parent-to-child relation. The index is only
// well defined for forests: a node with more than one incoming edge makes
// parent lookups ambiguous, so such input is rejected instead of silently
// picking whichever edge happens to come first.
type HierarchyIndex struct{}

// NewHierarchyIndex creates a new hierarchy index service
func NewHierarchyIndex() *HierarchyIndex {
	return &HierarchyIndex{}
}

// BuildHierarchy initializes one entry per node, then appends the target's
// entry to the source's children for every edge. O(N + E). Edges whose
// endpoints are not in the node set are ignored.
func (s *HierarchyIndex) BuildHierarchy(
	nodes []*entities.Node,
	edges []*entities.Edge,
) map[valueobjects.NodeID]*HierarchyEntry {
	index := make(map[valueobjects.NodeID]*HierarchyEntry, len(nodes))
	for _, node := range nodes {
		index[node.ID()] = &HierarchyEntry{NodeID: node.ID()}
	}

	for _, edge := range edges {
		source, sourceOK := index[edge.SourceID()]
		target, targetOK := index[edge.TargetID()]
		if !sourceOK || !targetOK {
			continue
		}
		source.Children = append(source.Children, target)
	}

	return index
}

// GetDescendants collects every node reachable through children links,
// depth-first. A visited set keeps the walk terminating even when the edge
// list contains a cycle.
func (s *HierarchyIndex) GetDescendants(
	nodeID valueobjects.NodeID,
	index map[valueobjects.NodeID]*HierarchyEntry,
) []valueobjects.NodeID {
	entry, exists := index[nodeID]
	if !exists {
		return []valueobjects.NodeID{}
	}

	visited := map[valueobjects.NodeID]bool{nodeID: true}
	descendants := make([]valueobjects.NodeID, 0)
	s.collectDescendants(entry, visited, &descendants)
	return descendants
}

func (s *HierarchyIndex) collectDescendants(
	entry *HierarchyEntry,
	visited map[valueobjects.NodeID]bool,
	out *[]valueobjects.NodeID,
) {
	for _, child := range entry.Children {
		if visited[child.NodeID] {
			continue
		}
		visited[child.NodeID] = true
		*out = append(*out, child.NodeID)
		s.collectDescendants(child, visited, out)
	}
}

// CountDescendants returns the number of nodes beneath the given one
func (s *HierarchyIndex) CountDescendants(
	nodeID valueobjects.NodeID,
	index map[valueobjects.NodeID]*HierarchyEntry,
) int {
	return len(s.GetDescendants(nodeID, index))
}

// GetDirectChildren returns the targets of every outgoing edge
func (s *HierarchyIndex) GetDirectChildren(
	nodeID valueobjects.NodeID,
	edges []*entities.Edge,
) []valueobjects.NodeID {
	children := make([]valueobjects.NodeID, 0)
	for _, edge := range edges {
		if edge.SourceID().Equals(nodeID) {
			children = append(children, edge.TargetID())
		}
	}
	return children
}

// GetParent returns the source of the node's incoming edge. A node with no
// incoming edge is a root and yields a zero NodeID. More than one incoming
// edge means the forest assumption is broken and lookup order would decide
// the answer, so that case is a validation error.
func (s *HierarchyIndex) GetParent(
	nodeID valueobjects.NodeID,
	edges []*entities.Edge,
) (valueobjects.NodeID, error) {
	var parent valueobjects.NodeID
	found := false
	for _, edge := range edges {
		if !edge.TargetID().Equals(nodeID) {
			continue
		}
		if found {
			return valueobjects.NodeID{}, pkgerrors.NewValidationError(
				fmt.Sprintf("node %s has multiple incoming edges: parent is ambiguous", nodeID.String()))
		}
		parent = edge.SourceID()
		found = true
	}
	return parent, nil
}

// HasChildren checks whether the node has any outgoing edge
func (s *HierarchyIndex) HasChildren(nodeID valueobjects.NodeID, edges []*entities.Edge) bool {
	for _, edge := range edges {
		if edge.SourceID().Equals(nodeID) {
			return true
		}
	}
	return false
}

// ValidateForest reports every node with more than one incoming edge.
// Returns nil when the edge list forms a forest.
func (s *HierarchyIndex) ValidateForest(edges []*entities.Edge) error {
	incoming := make(map[valueobjects.NodeID]int)
	for _, edge := range edges {
		incoming[edge.TargetID()]++
	}

	var offenders []string
	for nodeID, count := range incoming {
		if count > 1 {
			offenders = append(offenders, nodeID.String())
		}
	}
	if len(offenders) == 0 {
		return nil
	}

	sort.Strings(offenders)
	return pkgerrors.NewValidationError(
		fmt.Sprintf("edge list is not a forest: nodes with multiple parents: %s", strings.Join(offenders, ", ")))
}

// HiddenNodeIDs evaluates collapse state: a collapsed node hides all of its
// descendants, not itself. The returned set feeds whatever consumer filters
// a visible node list.
func (s *HierarchyIndex) HiddenNodeIDs(
	nodes []*entities.Node,
	edges []*entities.Edge,
) map[valueobjects.NodeID]bool {
	index := s.BuildHierarchy(nodes, edges)
	hidden := make(map[valueobjects.NodeID]bool)

	for _, node := range nodes {
		if !node.IsCollapsed() {
			continue
		}
		for _, descendantID := range s.GetDescendants(node.ID(), index) {
			hidden[descendantID] = true
		}
	}

	return hidden
}

// VisibleNodes filters out every node hidden by a collapsed ancestor
func (s *HierarchyIndex) VisibleNodes(
	nodes []*entities.Node,
	edges []*entities.Edge,
) []*entities.Node {
	hidden := s.HiddenNodeIDs(nodes, edges)
	visible := make([]*entities.Node, 0, len(nodes))
	for _, node := range nodes {
		if !hidden[node.ID()] {
			visible = append(visible, node)
		}
	}
	return visible
}
