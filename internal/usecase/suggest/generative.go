package suggest

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/domain/suggestion"
)

// Generative is the third cascade stage: contextual retrieval feeding a
// generative rewrite model. Expensive and external, so it runs only after
// both search stages failed. Its output is used only when retrieval found
// grounding documents.
type Generative struct {
	retriever Retriever
	rewriter  domain.Rewriter
	validator *Validator
	maxDocs   int
	logger    *zap.Logger
}

// NewGenerative creates the stage. A nil rewriter makes the stage a no-op
// (the cascade skips straight past it).
func NewGenerative(
	retriever Retriever, rewriter domain.Rewriter,
	validator *Validator, maxDocs int, logger *zap.Logger,
) *Generative {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generative{
		retriever: retriever, rewriter: rewriter,
		validator: validator, maxDocs: maxDocs, logger: logger,
	}
}

// Name identifies the stage in suggestion provenance.
func (s *Generative) Name() string { return "generative_rewrite" }

// Attempt retrieves grounding chunks via context-enhanced hybrid retrieval
// and asks the rewrite model for an improved sentence. Timeouts and
// provider errors are treated as a failed gate, never propagated.
func (s *Generative) Attempt(ctx context.Context, req suggestion.Request) (suggestion.Attempt, bool) {
	if s.rewriter == nil {
		return suggestion.Attempt{}, false
	}

	query := strings.TrimSpace(req.Issue + " " + req.Sentence)
	results := Dedup(s.retriever.Contextual(ctx, query, req.DocumentContext, s.maxDocs))
	if len(results) == 0 {
		// Ungrounded generation is not trustworthy enough to short-circuit
		// the cascade.
		return suggestion.Attempt{}, false
	}

	contexts := make([]string, len(results))
	sources := make([]string, len(results))
	for i := range results {
		contexts[i] = results[i].Content()
		sources[i] = provenance(&results[i])
	}

	out, err := s.rewriter.Rewrite(ctx, domain.RewriteRequest{
		Issue:    req.Issue,
		Sentence: req.Sentence,
		Context:  contexts,
	})
	if err != nil {
		s.logger.Warn("generative rewrite failed, cascading to fallback", zap.Error(err))
		return suggestion.Attempt{}, false
	}

	cleaned, note := s.validator.Clean(req.Sentence, out.Suggestion)
	if note != "" {
		sources = append(sources, note)
	}
	if out.Explanation != "" {
		sources = append(sources, out.Explanation)
	}

	return suggestion.Attempt{
		Suggestion: cleaned,
		Confidence: suggestion.High,
		Method:     s.Name(),
		Sources:    sources,
		Success:    true,
	}, true
}
