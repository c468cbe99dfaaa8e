package services

import (
	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// SearchIndex answers keyword, similarity and relationship queries over a
// node collection, optionally reaching into historical snapshots. It holds
// no graph state; every call receives the full collections it operates on.
type SearchIndex struct {
	analyzer TextAnalyzer
}

// NewSearchIndex creates a search index service
func NewSearchIndex(analyzer TextAnalyzer) *SearchIndex {
	if analyzer == nil {
		analyzer = NewDefaultTextAnalyzer()
	}
	return &SearchIndex{analyzer: analyzer}
}

// Search is the single entry point: it dispatches by mode to one of the
// three algorithms, then intersects the result set with the query's
// filters. Invalid input degrades to an empty result set rather than an
// error.
func (s *SearchIndex) Search(
	query SearchQuery,
	nodes []*entities.Node,
	edges []*entities.Edge,
	snapshots []*entities.Snapshot,
) []SearchResult {
	var results []SearchResult
	switch query.Mode {
	case SearchModeKeyword:
		results = s.KeywordSearch(query.Text, nodes, snapshots)
	case SearchModeSimilarity:
		results = s.SimilaritySearch(query.Text, nodes)
	case SearchModeRelationship:
		results = s.RelationshipSearch(query.SourceNodeID, query.MaxDegree, nodes, edges)
	default:
		return []SearchResult{}
	}

	return s.ApplyFilters(results, query.Filters, nodes, snapshots)
}

// ApplyFilters intersects results with the supplied card-type set, tag set
// and inclusive creation-date range. Categories that are not supplied are
// no-ops. Historical hits are evaluated against the node version recovered
// from the snapshots.
func (s *SearchIndex) ApplyFilters(
	results []SearchResult,
	filters SearchFilters,
	nodes []*entities.Node,
	snapshots []*entities.Snapshot,
) []SearchResult {
	if filters.IsZero() {
		return results
	}

	byID := make(map[valueobjects.NodeID]*entities.Node, len(nodes))
	for _, node := range nodes {
		byID[node.ID()] = node
	}
	for _, snapshot := range snapshots {
		for _, node := range snapshot.Nodes() {
			if _, exists := byID[node.ID()]; !exists {
				byID[node.ID()] = node
			}
		}
	}

	filtered := make([]SearchResult, 0, len(results))
	for _, result := range results {
		node, exists := byID[result.NodeID]
		if !exists {
			continue
		}
		if nodePassesFilters(node, filters) {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

func nodePassesFilters(node *entities.Node, filters SearchFilters) bool {
	if len(filters.CardTypes) > 0 {
		match := false
		for _, cardType := range filters.CardTypes {
			if node.CardType() == cardType {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	if len(filters.Tags) > 0 {
		nodeTags := make(map[string]bool)
		for _, tag := range node.Tags() {
			nodeTags[tag] = true
		}
		match := false
		for _, tag := range filters.Tags {
			if nodeTags[tag] {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	if filters.CreatedAfter != nil && node.CreatedAt().Before(*filters.CreatedAfter) {
		return false
	}
	if filters.CreatedBefore != nil && node.CreatedAt().After(*filters.CreatedBefore) {
		return false
	}

	return true
}
