package services

import (
	"sort"
	"strings"

	"canvas-backend/domain/core/entities"
	"canvas-backend/domain/core/valueobjects"
)

// Keyword match weights. Historical hits are slightly discounted so current
// content always outranks a deleted or since-modified version of itself.
const (
	keywordTitleScore   = 10.0
	keywordTagScore     = 7.0
	keywordContentScore = 5.0

	historicalTitleScore   = 8.0
	historicalTagScore     = 5.0
	historicalContentScore = 3.0

	snippetContext = 50
)

// KeywordSearch scores every current node by case-insensitive substring
// matches on title, tags and extracted content, then recovers additional
// hits for node IDs that only exist in historical snapshots, at reduced
// weights. Results are sorted by descending score; ties keep insertion
// order.
func (s *SearchIndex) KeywordSearch(
	query string,
	nodes []*entities.Node,
	snapshots []*entities.Snapshot,
) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []SearchResult{}
	}

	results := make([]SearchResult, 0)
	found := make(map[valueobjects.NodeID]bool, len(nodes))

	for _, node := range nodes {
		if result, ok := scoreKeywordNode(node, query, false); ok {
			results = append(results, result)
			found[node.ID()] = true
		}
	}

	for _, snapshot := range snapshots {
		for _, node := range snapshot.Nodes() {
			if found[node.ID()] {
				continue
			}
			if result, ok := scoreKeywordNode(node, query, true); ok {
				results = append(results, result)
				found[node.ID()] = true
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// scoreKeywordNode applies the substring weights to one node. The match
// type records the highest-priority field that hit: title over tag over
// content.
func scoreKeywordNode(node *entities.Node, query string, historical bool) (SearchResult, bool) {
	titleScore, tagScore, contentScore := keywordTitleScore, keywordTagScore, keywordContentScore
	if historical {
		titleScore, tagScore, contentScore = historicalTitleScore, historicalTagScore, historicalContentScore
	}

	content := ExtractNodeContent(node)

	score := 0.0
	matchType := MatchType("")

	if strings.Contains(strings.ToLower(node.Title()), query) {
		score += titleScore
		matchType = MatchTypeTitle
	}
	for _, tag := range node.Tags() {
		if strings.Contains(strings.ToLower(tag), query) {
			score += tagScore
			if matchType == "" {
				matchType = MatchTypeTag
			}
			break
		}
	}
	if strings.Contains(content, query) {
		score += contentScore
		if matchType == "" {
			matchType = MatchTypeContent
		}
	}

	if score == 0 {
		return SearchResult{}, false
	}

	snippet := makeSnippet(content, query)
	if historical {
		snippet += " (historical)"
	}

	return SearchResult{
		NodeID:    node.ID(),
		Score:     score,
		MatchType: matchType,
		Snippet:   snippet,
	}, true
}

// makeSnippet returns up to snippetContext characters of context around the
// first occurrence of the query, or a truncated prefix when the snippet
// source has no direct substring hit
func makeSnippet(content, query string) string {
	index := strings.Index(content, query)
	if index < 0 {
		return truncateSnippet(content)
	}

	start := index - snippetContext/2
	if start < 0 {
		start = 0
	}
	end := index + len(query) + snippetContext/2
	if end > len(content) {
		end = len(content)
	}

	snippet := content[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(content) {
		snippet += "..."
	}
	return snippet
}

// truncateSnippet returns a plain prefix snippet
func truncateSnippet(content string) string {
	if len(content) <= snippetContext {
		return content
	}
	return content[:snippetContext] + "..."
}
