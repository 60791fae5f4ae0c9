package suggest

import (
	"context"

	"github.com/kailas-cloud/redraft/internal/domain/suggestion"
)

// FallbackMethod is the method tag of the terminal stage, also used when
// the orchestrator forces a rewrite on a no-op strategy output.
const FallbackMethod = "generic_fallback"

// RuleFallback is the terminal cascade stage: deterministic, dependency-free
// pattern rewrites. It always succeeds, even with zero indexed documents and
// zero network access. It is the system's availability floor.
type RuleFallback struct {
	rules *Rules
}

// NewRuleFallback creates the stage.
func NewRuleFallback(rules *Rules) *RuleFallback {
	return &RuleFallback{rules: rules}
}

// Name identifies the stage in suggestion provenance.
func (s *RuleFallback) Name() string { return FallbackMethod }

// Attempt applies the rule engine to the flagged sentence. When no rule
// matches, the original sentence is returned with a note; ok is true either
// way; this stage is unconditional.
func (s *RuleFallback) Attempt(_ context.Context, req suggestion.Request) (suggestion.Attempt, bool) {
	transformed, applied, changed := s.rules.Transform(req.Sentence)
	if !changed {
		return suggestion.Attempt{
			Suggestion: req.Sentence,
			Confidence: suggestion.Low,
			Method:     s.Name(),
			Sources:    []string{"no rewrite rule matched; original kept"},
			Success:    true,
		}, true
	}

	sources := make([]string, len(applied))
	for i, name := range applied {
		sources[i] = "rule: " + name
	}
	return suggestion.Attempt{
		Suggestion: transformed,
		Confidence: suggestion.Low,
		Method:     s.Name(),
		Sources:    sources,
		Success:    true,
	}, true
}
