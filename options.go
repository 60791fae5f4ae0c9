package redraft

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/domain"
)

// Embedder is the embedding provider contract for embedded use. Implement it
// to enable dense retrieval and semantic chunking.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Rewriter is the generative rewrite contract for embedded use.
type Rewriter interface {
	Rewrite(ctx context.Context, issue, sentence string, styleContext []string) (string, error)
}

// ChunkingConfig controls how documents are split before indexing.
type ChunkingConfig struct {
	Method      string // adaptive, fixed, sentence, paragraph, semantic
	ChunkSize   int
	OverlapSize int
	TargetSize  int
}

type clientConfig struct {
	embedder Embedder
	rewriter Rewriter
	logger   *zap.Logger

	chunking ChunkingConfig

	weightDense    float64
	weightSparse   float64
	poolMultiplier int

	highThreshold     float64
	mediumThreshold   float64
	extendedThreshold float64
	maxContextDocs    int
	lengthSlackWords  int
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		chunking: ChunkingConfig{
			Method:     "adaptive",
			ChunkSize:  500,
			TargetSize: 600,
		},
		weightDense:       0.7,
		weightSparse:      0.3,
		poolMultiplier:    2,
		highThreshold:     0.75,
		mediumThreshold:   0.5,
		extendedThreshold: 0.4,
		maxContextDocs:    5,
		lengthSlackWords:  15,
	}
}

func (c *clientConfig) validate() error {
	if c.chunking.ChunkSize <= 0 {
		return errors.New("chunk size must be positive")
	}
	if c.chunking.OverlapSize >= c.chunking.ChunkSize {
		return errors.New("overlap size must be smaller than chunk size")
	}
	switch c.chunking.Method {
	case "adaptive", "fixed", "sentence", "paragraph", "semantic":
	default:
		return fmt.Errorf("unknown chunking method %q", c.chunking.Method)
	}
	if c.weightDense < 0 || c.weightSparse < 0 {
		return errors.New("fusion weights must not be negative")
	}
	if c.mediumThreshold > c.highThreshold {
		return errors.New("medium threshold must not exceed high threshold")
	}
	if c.extendedThreshold > c.mediumThreshold {
		return errors.New("extended threshold must not exceed medium threshold")
	}
	return nil
}

// Option configures the embedded Client.
type Option func(*clientConfig)

// WithEmbedder enables the dense engine with the given embedding provider.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithRewriter enables the generative cascade stage.
func WithRewriter(r Rewriter) Option {
	return func(c *clientConfig) { c.rewriter = r }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}

// WithChunking overrides the chunking configuration.
func WithChunking(cfg ChunkingConfig) Option {
	return func(c *clientConfig) {
		if cfg.Method != "" {
			c.chunking.Method = cfg.Method
		}
		if cfg.ChunkSize > 0 {
			c.chunking.ChunkSize = cfg.ChunkSize
		}
		if cfg.OverlapSize > 0 {
			c.chunking.OverlapSize = cfg.OverlapSize
		}
		if cfg.TargetSize > 0 {
			c.chunking.TargetSize = cfg.TargetSize
		}
	}
}

// WithFusionWeights sets the hybrid score fusion weights.
func WithFusionWeights(dense, sparse float64) Option {
	return func(c *clientConfig) {
		c.weightDense = dense
		c.weightSparse = sparse
	}
}

// WithCascadeThresholds sets the confidence gates of the suggestion cascade.
func WithCascadeThresholds(high, medium, extended float64) Option {
	return func(c *clientConfig) {
		c.highThreshold = high
		c.mediumThreshold = medium
		c.extendedThreshold = extended
	}
}

// embedderAdapter bridges the public Embedder to the domain contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// rewriterAdapter bridges the public Rewriter to the domain contract.
type rewriterAdapter struct {
	inner Rewriter
}

func (a *rewriterAdapter) Rewrite(ctx context.Context, req domain.RewriteRequest) (domain.RewriteResult, error) {
	out, err := a.inner.Rewrite(ctx, req.Issue, req.Sentence, req.Context)
	if err != nil {
		return domain.RewriteResult{}, err
	}
	return domain.RewriteResult{Suggestion: out}, nil
}
