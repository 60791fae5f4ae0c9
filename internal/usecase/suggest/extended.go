package suggest

import (
	"context"
	"strings"

	domret "github.com/kailas-cloud/redraft/internal/domain/retrieval"
	"github.com/kailas-cloud/redraft/internal/domain/suggestion"
	"github.com/kailas-cloud/redraft/internal/index/sparse"
)

// extendedSearchK is the per-variant candidate count for stage two.
const extendedSearchK = 5

// maxKeywords bounds how many content words a variant keeps.
const maxKeywords = 8

// queryQualifiers are appended to keyword variants to pull in guidance-style
// material.
var queryQualifiers = []string{"best practice", "guide"}

// ExtendedSearch is the second cascade stage: keyword variants derived from
// the issue and sentence, a wider net with a lower acceptance bar. It trades
// precision for recall after stage one's stricter attempt failed.
type ExtendedSearch struct {
	retriever Retriever
	threshold float64
}

// NewExtendedSearch creates the stage with its acceptance bar.
func NewExtendedSearch(retriever Retriever, threshold float64) *ExtendedSearch {
	return &ExtendedSearch{retriever: retriever, threshold: threshold}
}

// Name identifies the stage in suggestion provenance.
func (s *ExtendedSearch) Name() string { return "extended_search" }

// Attempt runs every keyword variant, deduplicates hits by content
// fingerprint, and accepts the best hit above the (lower) extended bar with
// medium confidence.
func (s *ExtendedSearch) Attempt(ctx context.Context, req suggestion.Request) (suggestion.Attempt, bool) {
	var pool []domret.Result
	for _, q := range keywordVariants(req) {
		pool = append(pool, s.retriever.HybridDefault(ctx, q, extendedSearchK, domret.Filter{})...)
	}
	pool = Dedup(pool)

	best := bestResult(pool)
	if best == nil || best.Score() <= s.threshold {
		return suggestion.Attempt{}, false
	}

	return suggestion.Attempt{
		Suggestion: best.Content(),
		Confidence: suggestion.Medium,
		Method:     s.Name(),
		Sources:    []string{provenance(best)},
		Success:    true,
	}, true
}

// keywordVariants derives search queries from the request: stop-words
// stripped from the issue and sentence, plus qualifier-suffixed forms.
func keywordVariants(req suggestion.Request) []string {
	var variants []string
	seen := make(map[string]struct{})
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" {
			return
		}
		if _, dup := seen[q]; dup {
			return
		}
		seen[q] = struct{}{}
		variants = append(variants, q)
	}

	issueKeys := keywords(req.Issue)
	sentenceKeys := keywords(req.Sentence)

	add(issueKeys)
	for _, qualifier := range queryQualifiers {
		if issueKeys != "" {
			add(issueKeys + " " + qualifier)
		}
	}
	add(sentenceKeys)
	if issueKeys != "" && sentenceKeys != "" {
		add(issueKeys + " " + sentenceKeys)
	}
	return variants
}

// keywords strips stop-words and joins the remaining content words.
func keywords(text string) string {
	toks := sparse.Tokenize(text)
	if len(toks) > maxKeywords {
		toks = toks[:maxKeywords]
	}
	return strings.Join(toks, " ")
}
