// Package suggest orchestrates the suggestion cascade: an ordered list of
// strategies tried from most authoritative (the user's own documents) to
// least (generic rule rewrites), short-circuiting on the first attempt that
// clears its confidence gate.
package suggest

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/domain/suggestion"
	"github.com/kailas-cloud/redraft/internal/metrics"
)

// Service runs the cascade. Failures inside strategies are internal and
// invisible to callers: the returned attempt always has Success=true, at
// worst with low confidence and the generic fallback method tag.
type Service struct {
	strategies []Strategy
	rules      *Rules
	logger     *zap.Logger
}

// New creates the orchestrator. Strategies are tried in slice order; the
// caller must terminate the list with an unconditional stage (RuleFallback)
// so cascade exhaustion cannot occur.
func New(strategies []Strategy, rules *Rules, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{strategies: strategies, rules: rules, logger: logger}
}

// Suggest produces exactly one suggestion for the request. A later strategy
// runs only when the earlier one did not clear its threshold: cheap
// high-precision sources first, expensive or low-precision sources last.
func (s *Service) Suggest(ctx context.Context, req suggestion.Request) suggestion.Attempt {
	start := time.Now()

	for _, strat := range s.strategies {
		attempt, ok := strat.Attempt(ctx, req)
		if !ok {
			continue
		}

		attempt = s.finalize(req, attempt)
		metrics.SuggestionTotal.WithLabelValues(attempt.Method, string(attempt.Confidence)).Inc()
		metrics.SuggestionDuration.WithLabelValues(attempt.Method).Observe(time.Since(start).Seconds())
		s.logger.Debug("cascade resolved",
			zap.String("method", attempt.Method),
			zap.String("confidence", string(attempt.Confidence)),
		)
		return attempt
	}

	// Unreachable when the list ends with RuleFallback; kept so a
	// misconfigured cascade still honors the availability contract.
	attempt := s.finalize(req, suggestion.Attempt{
		Suggestion: req.Sentence,
		Confidence: suggestion.Low,
		Method:     FallbackMethod,
	})
	metrics.SuggestionTotal.WithLabelValues(attempt.Method, string(attempt.Confidence)).Inc()
	return attempt
}

// finalize enforces the cross-stage contracts: Success is always true, the
// confidence is always a valid level, and a suggestion that silently equals
// the original sentence is forced through a fallback transformation when
// any rule applies.
func (s *Service) finalize(req suggestion.Request, attempt suggestion.Attempt) suggestion.Attempt {
	attempt.Success = true
	if !attempt.Confidence.IsValid() {
		attempt.Confidence = suggestion.Low
	}

	if strings.TrimSpace(attempt.Suggestion) == strings.TrimSpace(req.Sentence) {
		if transformed, applied, changed := s.rules.Transform(req.Sentence); changed {
			attempt.Suggestion = transformed
			attempt.Method = FallbackMethod
			attempt.Confidence = suggestion.Low
			for _, name := range applied {
				attempt.Sources = append(attempt.Sources, "rule: "+name)
			}
		}
	}
	return attempt
}
