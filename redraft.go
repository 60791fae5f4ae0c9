// Package redraft embeds the writing-assistant pipeline in-process: chunking,
// dual-index retrieval, and the suggestion cascade without the HTTP server.
package redraft

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/chunker"
	"github.com/kailas-cloud/redraft/internal/domain"
	domret "github.com/kailas-cloud/redraft/internal/domain/retrieval"
	"github.com/kailas-cloud/redraft/internal/domain/suggestion"
	"github.com/kailas-cloud/redraft/internal/index"
	ingestuc "github.com/kailas-cloud/redraft/internal/usecase/ingest"
	retrievaluc "github.com/kailas-cloud/redraft/internal/usecase/retrieval"
	suggestuc "github.com/kailas-cloud/redraft/internal/usecase/suggest"
)

// Document is a source document to index.
type Document struct {
	ID         string
	Content    string
	FileName   string
	SourceType string
	Title      string
	Metadata   map[string]string
}

// SearchResult is a single retrieval hit.
type SearchResult struct {
	ChunkID     string
	Content     string
	Score       float64
	Method      string
	SourceDocID string
	Metadata    map[string]string
}

// Suggestion is the outcome of the suggestion cascade.
type Suggestion struct {
	Suggestion string
	Confidence string
	Method     string
	Sources    []string
}

// Stats reports index state.
type Stats struct {
	ChunkCount      int
	VectorCount     int
	TermCount       int
	DenseAvailable  bool
	SparseAvailable bool
}

// Client is the embedded pipeline entry point. The corpus lives in memory;
// use the server binary for durable deployments.
type Client struct {
	ingest    *ingestuc.Service
	retrieval *retrievaluc.Service
	suggest   *suggestuc.Service
	dual      *index.DualStore
}

// New creates an embedded Client. Without WithEmbedder the client runs
// keyword-only; without WithRewriter the generative stage is skipped.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("redraft: %w", err)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var embedder domain.Embedder
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	}
	var rewriter domain.Rewriter
	if cfg.rewriter != nil {
		rewriter = &rewriterAdapter{inner: cfg.rewriter}
	}

	chunk := chunker.New(chunker.Config{
		Method:              cfg.chunking.Method,
		ChunkSize:           cfg.chunking.ChunkSize,
		OverlapSize:         cfg.chunking.OverlapSize,
		TargetSize:          cfg.chunking.TargetSize,
		SimilarityThreshold: 0.6,
		MinFactor:           0.5,
		MaxFactor:           1.5,
	}, nil, embedder, logger)
	dual := index.NewDualStore(embedder, logger)
	ingestSvc := ingestuc.New(chunk, dual, nil, logger)

	retrievalSvc := retrievaluc.New(dual, retrievaluc.Config{
		WeightDense:    cfg.weightDense,
		WeightSparse:   cfg.weightSparse,
		PoolMultiplier: cfg.poolMultiplier,
	}, logger)

	rules := suggestuc.NewRules()
	validator := suggestuc.NewValidator(cfg.lengthSlackWords, rules)
	strategies := []suggestuc.Strategy{
		suggestuc.NewDocumentSearch(retrievalSvc, cfg.highThreshold, cfg.mediumThreshold),
		suggestuc.NewExtendedSearch(retrievalSvc, cfg.extendedThreshold),
		suggestuc.NewGenerative(retrievalSvc, rewriter, validator, cfg.maxContextDocs, logger),
		suggestuc.NewRuleFallback(rules),
	}

	return &Client{
		ingest:    ingestSvc,
		retrieval: retrievalSvc,
		suggest:   suggestuc.New(strategies, rules, logger),
		dual:      dual,
	}, nil
}

// Ingest chunks and indexes a document. Returns the number of chunks added.
func (c *Client) Ingest(ctx context.Context, doc Document) (int, error) {
	res, err := c.ingest.Ingest(ctx, domain.Document{
		ID:         doc.ID,
		Content:    doc.Content,
		FileName:   doc.FileName,
		SourceType: doc.SourceType,
		Title:      doc.Title,
		Metadata:   doc.Metadata,
	})
	if err != nil {
		return 0, fmt.Errorf("redraft: %w", err)
	}
	return res.ChunkCount, nil
}

// Remove drops a document from the indexes. Returns the number of chunks removed.
func (c *Client) Remove(ctx context.Context, docID string) (int, error) {
	removed, err := c.ingest.Remove(ctx, docID)
	if err != nil {
		return 0, fmt.Errorf("redraft: %w", err)
	}
	return removed, nil
}

// Search runs hybrid retrieval over the indexed corpus.
func (c *Client) Search(ctx context.Context, query string, topK int) []SearchResult {
	results := c.retrieval.HybridDefault(ctx, query, topK, domret.Filter{})

	out := make([]SearchResult, len(results))
	for i := range results {
		out[i] = SearchResult{
			ChunkID:     results[i].ChunkID(),
			Content:     results[i].Content(),
			Score:       results[i].Score(),
			Method:      string(results[i].RetrievalMethod()),
			SourceDocID: results[i].SourceDocID(),
			Metadata:    results[i].Metadata(),
		}
	}
	return out
}

// Suggest runs the suggestion cascade for a flagged sentence.
func (c *Client) Suggest(ctx context.Context, issue, sentence, documentContext string) Suggestion {
	attempt := c.suggest.Suggest(ctx, suggestion.Request{
		Issue:           issue,
		Sentence:        sentence,
		DocumentContext: documentContext,
	})
	return Suggestion{
		Suggestion: attempt.Suggestion,
		Confidence: string(attempt.Confidence),
		Method:     attempt.Method,
		Sources:    attempt.Sources,
	}
}

// Stats reports the current index state.
func (c *Client) Stats() Stats {
	s := c.dual.Stats()
	return Stats{
		ChunkCount:      s.ChunkCount,
		VectorCount:     s.VectorCount,
		TermCount:       s.TermCount,
		DenseAvailable:  s.DenseAvailable,
		SparseAvailable: s.SparseAvailable,
	}
}
