package retrieval

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/redraft/internal/index/sparse"
)

// contextWordMinLen filters out short function words when mining the
// document context for vocabulary.
const contextWordMinLen = 4

// contextTopWords is how many frequent context words are appended to the query.
const contextTopWords = 3

// EnhanceQuery appends the most frequent content words (length >= 4,
// stopwords excluded) from the document context to the query. Ties are
// broken by first occurrence so enhancement is deterministic.
func EnhanceQuery(query, documentContext string) string {
	if strings.TrimSpace(documentContext) == "" {
		return query
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, tok := range sparse.Tokenize(documentContext) {
		if len(tok) < contextWordMinLen {
			continue
		}
		if _, ok := firstSeen[tok]; !ok {
			firstSeen[tok] = i
		}
		counts[tok]++
	}
	if len(counts) == 0 {
		return query
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > contextTopWords {
		words = words[:contextTopWords]
	}
	return query + " " + strings.Join(words, " ")
}
