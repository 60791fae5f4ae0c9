package suggest

import (
	"context"

	domret "github.com/kailas-cloud/redraft/internal/domain/retrieval"
	"github.com/kailas-cloud/redraft/internal/domain/suggestion"
)

// Retriever is the consumer contract suggestion strategies use to reach the
// hybrid retriever.
type Retriever interface {
	HybridDefault(ctx context.Context, query string, k int, f domret.Filter) []domret.Result
	Contextual(ctx context.Context, query, documentContext string, k int) []domret.Result
}

// Strategy is one stage of the suggestion cascade. Attempt returns ok=false
// when the stage did not clear its confidence gate; the orchestrator then
// moves to the next stage. The terminal stage always returns ok=true.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, req suggestion.Request) (suggestion.Attempt, bool)
}
