package services

import (
	"fmt"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// RelationshipSearch finds every node within maxDegree hops of the source,
// treating the directed edge list as an undirected graph. Results carry the
// full path taken and score 100 − 10·degree, so closer nodes rank higher.
// The source itself is excluded. A maxDegree below one or an unknown source
// yields an empty result.
func (s *SearchIndex) RelationshipSearch(
	sourceNodeID valueobjects.NodeID,
	maxDegree int,
	nodes []*entities.Node,
	edges []*entities.Edge,
) []SearchResult {
	if maxDegree < 1 {
		return []SearchResult{}
	}

	byID := make(map[valueobjects.NodeID]*entities.Node, len(nodes))
	for _, node := range nodes {
		byID[node.ID()] = node
	}
	if _, exists := byID[sourceNodeID]; !exists {
		return []SearchResult{}
	}

	// Each directed edge contributes both directions
	adjacency := make(map[valueobjects.NodeID][]valueobjects.NodeID)
	for _, edge := range edges {
		adjacency[edge.SourceID()] = append(adjacency[edge.SourceID()], edge.TargetID())
		adjacency[edge.TargetID()] = append(adjacency[edge.TargetID()], edge.SourceID())
	}

	type frontierEntry struct {
		id     valueobjects.NodeID
		degree int
		path   []valueobjects.NodeID
	}

	visited := map[valueobjects.NodeID]bool{sourceNodeID: true}
	queue := []frontierEntry{{id: sourceNodeID, degree: 0, path: []valueobjects.NodeID{sourceNodeID}}}
	results := make([]SearchResult, 0)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.degree >= maxDegree {
			continue
		}

		for _, neighborID := range adjacency[current.id] {
			if visited[neighborID] {
				continue
			}
			if _, exists := byID[neighborID]; !exists {
				continue
			}
			visited[neighborID] = true

			path := make([]valueobjects.NodeID, len(current.path), len(current.path)+1)
			copy(path, current.path)
			path = append(path, neighborID)

			degree := current.degree + 1
			results = append(results, SearchResult{
				NodeID:         neighborID,
				Score:          100 - 10*float64(degree),
				MatchType:      MatchTypeConnection,
				Snippet:        connectionSnippet(byID[neighborID], degree),
				ConnectionPath: path,
			})
			queue = append(queue, frontierEntry{id: neighborID, degree: degree, path: path})
		}
	}

	return results
}

// connectionSnippet describes how far a connected node sits from the source
func connectionSnippet(node *entities.Node, degree int) string {
	label := node.Title()
	if label == "" {
		label = string(node.CardType())
	}
	if degree == 1 {
		return fmt.Sprintf("%s (directly connected)", label)
	}
	return fmt.Sprintf("%s (%d hops away)", label, degree)
}
