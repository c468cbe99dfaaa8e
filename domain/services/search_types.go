package services

import (
	"time"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// SearchMode selects the retrieval algorithm
type SearchMode string

const (
	SearchModeKeyword      SearchMode = "keyword"
	SearchModeSimilarity   SearchMode = "similarity"
	SearchModeRelationship SearchMode = "relationship"
)

// ParseSearchMode validates a raw mode name
func ParseSearchMode(s string) (SearchMode, bool) {
	switch SearchMode(s) {
	case SearchModeKeyword, SearchModeSimilarity, SearchModeRelationship:
		return SearchMode(s), true
	default:
		return "", false
	}
}

// MatchType records which field produced a search hit
type MatchType string

const (
	MatchTypeTitle      MatchType = "title"
	MatchTypeContent    MatchType = "content"
	MatchTypeTag        MatchType = "tag"
	MatchTypeConnection MatchType = "connection"
)

// SearchResult is one scored hit. Higher score means a stronger match; the
// scoring scale differs per mode and is not comparable across modes.
type SearchResult struct {
	NodeID         valueobjects.NodeID
	Score          float64
	MatchType      MatchType
	Snippet        string
	ConnectionPath []valueobjects.NodeID
}

// SearchFilters narrows a result set. Any category left empty is a no-op.
type SearchFilters struct {
	CardTypes     []entities.CardType
	Tags          []string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// IsZero checks whether no filter category is supplied
func (f SearchFilters) IsZero() bool {
	return len(f.CardTypes) == 0 && len(f.Tags) == 0 && f.CreatedAfter == nil && f.CreatedBefore == nil
}

// SearchQuery is the single entry point's input
type SearchQuery struct {
	Mode SearchMode
	// Text is the query string for keyword and similarity modes
	Text string
	// SourceNodeID and MaxDegree drive relationship mode
	SourceNodeID valueobjects.NodeID
	MaxDegree    int
	Filters      SearchFilters
}
