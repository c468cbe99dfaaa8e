package services

import (
	"math"
	"sort"

	"canvas-backend/domain/core/entities"
)

// similarityCutoff drops matches whose cosine similarity is noise
const similarityCutoff = 0.1

// SimilaritySearch ranks nodes by TF-IDF cosine similarity between the
// query and each node's extracted content. The query is document zero of
// the corpus; term weight is tf · (ln(totalDocs / docFreq) + 1). The +1
// smoothing keeps terms present in every document from zeroing out, so an
// exact content match still scores near 1.0 in a one-node corpus. Matches
// with similarity above the cutoff are returned with score = similarity
// × 100. An empty query or node set yields an empty result.
func (s *SearchIndex) SimilaritySearch(query string, nodes []*entities.Node) []SearchResult {
	queryTokens := s.analyzer.Tokenize(query)
	if len(queryTokens) == 0 || len(nodes) == 0 {
		return []SearchResult{}
	}

	// Document 0 is the query; documents 1..N are the nodes
	docs := make([][]string, 0, len(nodes)+1)
	docs = append(docs, queryTokens)
	contents := make([]string, len(nodes))
	for i, node := range nodes {
		contents[i] = ExtractNodeContent(node)
		docs = append(docs, s.analyzer.Tokenize(contents[i]))
	}

	termFreqs := make([]map[string]float64, len(docs))
	docFreq := make(map[string]float64)
	for i, tokens := range docs {
		tf := make(map[string]float64, len(tokens))
		for _, token := range tokens {
			tf[token]++
		}
		termFreqs[i] = tf
		for token := range tf {
			docFreq[token]++
		}
	}

	totalDocs := float64(len(docs))
	weights := make([]map[string]float64, len(docs))
	for i, tf := range termFreqs {
		vector := make(map[string]float64, len(tf))
		for token, freq := range tf {
			vector[token] = freq * (math.Log(totalDocs/docFreq[token]) + 1)
		}
		weights[i] = vector
	}

	results := make([]SearchResult, 0)
	for i, node := range nodes {
		similarity := cosineSimilarity(weights[0], weights[i+1])
		if similarity <= similarityCutoff {
			continue
		}
		results = append(results, SearchResult{
			NodeID:    node.ID(),
			Score:     similarity * 100,
			MatchType: MatchTypeContent,
			Snippet:   truncateSnippet(contents[i]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// cosineSimilarity computes the normalized dot product of two sparse
// vectors
func cosineSimilarity(a, b map[string]float64) float64 {
	dot := 0.0
	for term, weightA := range a {
		if weightB, ok := b[term]; ok {
			dot += weightA * weightB
		}
	}
	if dot == 0 {
		return 0
	}

	normA := 0.0
	for _, weight := range a {
		normA += weight * weight
	}
	normB := 0.0
	for _, weight := range b {
		normB += weight * weight
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
