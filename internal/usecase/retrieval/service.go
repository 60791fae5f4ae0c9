// Package retrieval answers "top-k most relevant chunks for query Q" under
// dense, sparse, hybrid, and context-enhanced relevance definitions. All
// retrieval methods share a common [0,1] higher-is-better score scale and
// never propagate engine errors to callers: failures are logged and treated
// as zero results from that engine.
package retrieval

import (
	"context"
	"sort"

	"go.uber.org/zap"

	domret "github.com/kailas-cloud/redraft/internal/domain/retrieval"
)

// Config holds retrieval parameters.
type Config struct {
	WeightDense  float64
	WeightSparse float64
	// PoolMultiplier enlarges per-engine candidate pools when a filter is
	// set, so post-filtering does not under-fill the final top-k.
	PoolMultiplier int
}

// Service is the hybrid retriever.
type Service struct {
	store  Store
	cfg    Config
	logger *zap.Logger
}

// New creates a retrieval service.
func New(store Store, cfg Config, logger *zap.Logger) *Service {
	if cfg.PoolMultiplier <= 0 {
		cfg.PoolMultiplier = 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cfg: cfg, logger: logger}
}

// Dense runs nearest-neighbour lookup. The engine's cosine distance is
// converted to relevance via max(0, 1-distance). Returns nil when the dense
// engine is unavailable or fails.
func (s *Service) Dense(ctx context.Context, query string, k int, f domret.Filter) []domret.Result {
	if k <= 0 {
		return nil
	}

	hits, err := s.store.SearchDense(ctx, query, s.pool(k, f))
	if err != nil {
		s.logger.Warn("dense retrieval failed", zap.String("query", query), zap.Error(err))
		return nil
	}

	results := make([]domret.Result, 0, len(hits))
	for _, h := range hits {
		c, ok := s.store.Chunk(h.ChunkID)
		if !ok || !f.Matches(&c) {
			continue
		}
		relevance := 1 - h.Distance
		if relevance < 0 {
			relevance = 0
		}
		r := domret.New(c.ID(), c.Content(), relevance, domret.Embedding, c.SourceDocID(), c.Metadata())
		results = append(results, r.WithDistance(h.Distance))
	}
	return truncate(results, k)
}

// Sparse vectorizes the query against the fitted TF-IDF model and returns
// top-k by cosine similarity, ties broken by insertion order.
func (s *Service) Sparse(query string, k int, f domret.Filter) []domret.Result {
	if k <= 0 {
		return nil
	}

	hits := s.store.SearchSparse(query, s.pool(k, f))

	results := make([]domret.Result, 0, len(hits))
	for _, h := range hits {
		c, ok := s.store.Chunk(h.ChunkID)
		if !ok || !f.Matches(&c) {
			continue
		}
		results = append(results, domret.New(c.ID(), c.Content(), h.Score, domret.Keyword, c.SourceDocID(), c.Metadata()))
	}
	return truncate(results, k)
}

// Hybrid runs both engines with an enlarged candidate pool and fuses their
// scores. Weights are normalized to sum to 1; fusion is keyed by chunk
// content rather than id, so the two independently-maintained indexes need
// not be perfectly synchronized: a chunk seen by only one engine gets 0
// for the missing engine's score instead of being dropped.
func (s *Service) Hybrid(ctx context.Context, query string, k int, weightDense, weightSparse float64, f domret.Filter) []domret.Result {
	if k <= 0 {
		return nil
	}
	weightDense, weightSparse = normalizeWeights(weightDense, weightSparse)

	// Enlarged pools reduce the chance a borderline chunk is dropped
	// before fusion.
	pool := 2 * k
	denseResults := s.Dense(ctx, query, pool, f)
	sparseResults := s.Sparse(query, pool, f)

	fused := fuse(denseResults, sparseResults, weightDense, weightSparse)
	return truncate(fused, k)
}

// HybridDefault runs Hybrid with the configured weights.
func (s *Service) HybridDefault(ctx context.Context, query string, k int, f domret.Filter) []domret.Result {
	return s.Hybrid(ctx, query, k, s.cfg.WeightDense, s.cfg.WeightSparse, f)
}

// Contextual biases retrieval toward the current document's vocabulary by
// appending its most frequent content words to the query, then delegates to
// hybrid retrieval. Deliberately cheap: no extra embedding call.
func (s *Service) Contextual(ctx context.Context, query, documentContext string, k int) []domret.Result {
	enhanced := EnhanceQuery(query, documentContext)
	results := s.Hybrid(ctx, enhanced, k, s.cfg.WeightDense, s.cfg.WeightSparse, domret.Filter{})

	out := make([]domret.Result, len(results))
	for i, r := range results {
		out[i] = r.WithMethod(domret.Contextual)
	}
	return out
}

// pool widens the candidate pool when post-filtering will discard results.
func (s *Service) pool(k int, f domret.Filter) int {
	if f.IsZero() {
		return k
	}
	return k * s.cfg.PoolMultiplier
}

func normalizeWeights(wd, ws float64) (float64, float64) {
	if wd < 0 {
		wd = 0
	}
	if ws < 0 {
		ws = 0
	}
	sum := wd + ws
	if sum == 0 {
		return 0.5, 0.5
	}
	return wd / sum, ws / sum
}

func truncate(results []domret.Result, k int) []domret.Result {
	if len(results) > k {
		return results[:k]
	}
	return results
}

// fuse merges dense and sparse result lists into hybrid-scored results,
// keyed by content. Output order is deterministic: sorted by fused score
// descending, ties broken by first-seen order.
func fuse(denseResults, sparseResults []domret.Result, weightDense, weightSparse float64) []domret.Result {
	type scored struct {
		res         domret.Result
		denseScore  float64
		sparseScore float64
	}

	merged := make(map[string]*scored, len(denseResults)+len(sparseResults))
	var order []string

	for _, r := range denseResults {
		key := r.Content()
		if _, ok := merged[key]; !ok {
			merged[key] = &scored{res: r}
			order = append(order, key)
		}
		merged[key].denseScore = r.Score()
	}
	for _, r := range sparseResults {
		key := r.Content()
		if _, ok := merged[key]; !ok {
			merged[key] = &scored{res: r}
			order = append(order, key)
		}
		merged[key].sparseScore = r.Score()
	}

	results := make([]domret.Result, 0, len(order))
	for _, key := range order {
		sc := merged[key]
		fusedScore := weightDense*sc.denseScore + weightSparse*sc.sparseScore
		results = append(results, sc.res.WithScore(fusedScore).WithMethod(domret.Hybrid))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
	return results
}
