package suggest

import (
	"context"
	"fmt"
	"strings"

	domret "github.com/kailas-cloud/redraft/internal/domain/retrieval"
	"github.com/kailas-cloud/redraft/internal/domain/suggestion"
)

// documentSearchK is the per-formulation candidate count for stage one.
const documentSearchK = 5

// DocumentSearch is the first cascade stage: hybrid retrieval over the
// user's own indexed material, tried with several query formulations. The
// most authoritative source gets the strictest bar.
type DocumentSearch struct {
	retriever Retriever
	high      float64
	medium    float64
}

// NewDocumentSearch creates the stage with its confidence thresholds.
func NewDocumentSearch(retriever Retriever, high, medium float64) *DocumentSearch {
	return &DocumentSearch{retriever: retriever, high: high, medium: medium}
}

// Name identifies the stage in suggestion provenance.
func (s *DocumentSearch) Name() string { return "document_search" }

// Attempt keeps the best-scoring hit across formulations. Clears the gate
// with confidence high above the high threshold, medium above the medium
// threshold, and not at all otherwise.
func (s *DocumentSearch) Attempt(ctx context.Context, req suggestion.Request) (suggestion.Attempt, bool) {
	var pool []domret.Result
	for _, q := range formulations(req) {
		pool = append(pool, s.retriever.HybridDefault(ctx, q, documentSearchK, domret.Filter{})...)
	}
	pool = Dedup(pool)

	best := bestResult(pool)
	if best == nil {
		return suggestion.Attempt{}, false
	}

	confidence := suggestion.Confidence("")
	switch {
	case best.Score() > s.high:
		confidence = suggestion.High
	case best.Score() > s.medium:
		confidence = suggestion.Medium
	default:
		return suggestion.Attempt{}, false
	}

	return suggestion.Attempt{
		Suggestion: best.Content(),
		Confidence: confidence,
		Method:     s.Name(),
		Sources:    []string{provenance(best)},
		Success:    true,
	}, true
}

// formulations returns the non-empty query variants for a request:
// issue+sentence combined, issue alone, sentence alone.
func formulations(req suggestion.Request) []string {
	issue := strings.TrimSpace(req.Issue)
	sentence := strings.TrimSpace(req.Sentence)

	var out []string
	if issue != "" && sentence != "" {
		out = append(out, issue+" "+sentence)
	}
	if issue != "" {
		out = append(out, issue)
	}
	if sentence != "" {
		out = append(out, sentence)
	}
	return out
}

// bestResult returns the highest-scoring result, first occurrence winning
// ties so the outcome does not depend on formulation order quirks.
func bestResult(results []domret.Result) *domret.Result {
	var best *domret.Result
	for i := range results {
		if best == nil || results[i].Score() > best.Score() {
			best = &results[i]
		}
	}
	return best
}

// provenance renders a human-readable source string for a retrieval hit.
func provenance(r *domret.Result) string {
	title := r.Metadata()["doc_title"]
	if title == "" {
		title = r.Metadata()["source_file"]
	}
	if title == "" {
		title = r.SourceDocID()
	}
	return fmt.Sprintf("%s (chunk %s, score %.2f)", title, r.ChunkID(), r.Score())
}
