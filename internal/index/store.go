// Package index owns the chunk corpus and its two derived indexes: a dense
// embedding table and a sparse TF-IDF model. The two engines are updated
// independently; a failure in one never blocks the other.
package index

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/domain/chunk"
	"github.com/kailas-cloud/redraft/internal/index/dense"
	"github.com/kailas-cloud/redraft/internal/index/sparse"
)

// AddResult reports per-engine outcomes of one ingest batch.
type AddResult struct {
	Added    int
	DenseOK  bool
	SparseOK bool
}

// Stats describes the current corpus and which engines are live. The rest of
// the system uses it to degrade gracefully when an engine is absent.
type Stats struct {
	ChunkCount      int
	VectorCount     int
	TermCount       int
	DenseAvailable  bool
	SparseAvailable bool
}

// DualStore keeps the union of all ingested chunks plus the dense and sparse
// indexes over them. Chunk ids are globally unique; re-adding an existing id
// is a no-op.
type DualStore struct {
	mu     sync.RWMutex
	chunks map[string]chunk.Chunk
	order  []string

	dense    *dense.Table
	sparse   *sparse.Engine
	embedder domain.Embedder // nil disables the dense engine
	logger   *zap.Logger
}

// NewDualStore creates an empty store. A nil embedder leaves the dense
// engine permanently unavailable; sparse indexing works regardless.
func NewDualStore(embedder domain.Embedder, logger *zap.Logger) *DualStore {
	return &DualStore{
		chunks:   make(map[string]chunk.Chunk),
		dense:    dense.New(),
		sparse:   sparse.New(),
		embedder: embedder,
		logger:   logger,
	}
}

// AddChunks indexes every chunk whose id is not already present. The dense
// table grows incrementally; the sparse model is refit over the full corpus
// because IDF weights are only valid globally. Partial failure is reported
// per engine, never raised.
func (s *DualStore) AddChunks(ctx context.Context, chunks []chunk.Chunk) AddResult {
	fresh := s.register(chunks)
	if len(fresh) == 0 {
		return AddResult{DenseOK: s.embedder != nil, SparseOK: true}
	}

	res := AddResult{Added: len(fresh)}
	res.DenseOK = s.addDense(ctx, fresh)
	res.SparseOK = s.addSparse(fresh)
	return res
}

// register records chunks in the corpus map, returning only the ones that
// were not present before (duplicate suppression at ingest time).
func (s *DualStore) register(chunks []chunk.Chunk) []chunk.Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make([]chunk.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if _, ok := s.chunks[c.ID()]; ok {
			continue
		}
		s.chunks[c.ID()] = c
		s.order = append(s.order, c.ID())
		fresh = append(fresh, c)
	}
	return fresh
}

func (s *DualStore) addDense(ctx context.Context, fresh []chunk.Chunk) bool {
	if s.embedder == nil {
		return false
	}

	texts := make([]string, len(fresh))
	for i, c := range fresh {
		texts[i] = c.Content()
	}

	batch, err := domain.EmbedAll(ctx, s.embedder, texts)
	if err != nil {
		s.logger.Warn("dense indexing failed, chunks remain sparse-only",
			zap.Int("chunks", len(fresh)), zap.Error(err))
		return false
	}

	for i, c := range fresh {
		s.dense.Add(c.ID(), batch.Embeddings[i])
	}
	return true
}

func (s *DualStore) addSparse(fresh []chunk.Chunk) bool {
	contents := make(map[string]string, len(fresh))
	order := make([]string, len(fresh))
	for i, c := range fresh {
		contents[c.ID()] = c.Content()
		order[i] = c.ID()
	}
	s.sparse.Add(contents, order)
	return true
}

// RemoveDocument drops every chunk owned by the given document from the
// corpus and both engines. Returns the removed chunk ids.
func (s *DualStore) RemoveDocument(docID string) []string {
	s.mu.Lock()
	removed := make([]string, 0)
	kept := s.order[:0]
	for _, id := range s.order {
		c := s.chunks[id]
		if c.SourceDocID() == docID {
			delete(s.chunks, id)
			removed = append(removed, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	s.mu.Unlock()

	if len(removed) > 0 {
		s.dense.Remove(removed)
		s.sparse.Remove(removed)
	}
	return removed
}

// Chunk returns the chunk for the given id.
func (s *DualStore) Chunk(id string) (chunk.Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chunks[id]
	return c, ok
}

// SearchDense embeds the query and runs nearest-neighbour lookup. Returns
// (nil, nil) when the dense engine is unavailable; an embedding failure is
// returned as an error for the caller to log and treat as zero results.
func (s *DualStore) SearchDense(ctx context.Context, query string, k int) ([]dense.Hit, error) {
	if s.embedder == nil || s.dense.Len() == 0 {
		return nil, nil
	}

	res, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.dense.Search(res.Embedding, k), nil
}

// SearchSparse vectorizes the query against the fitted model and returns
// top-k lexical matches. Returns nil when no model is fitted.
func (s *DualStore) SearchSparse(query string, k int) []sparse.Hit {
	return s.sparse.Search(query, k)
}

// Stats answers truthfully about corpus size and engine availability.
func (s *DualStore) Stats() Stats {
	s.mu.RLock()
	count := len(s.chunks)
	s.mu.RUnlock()

	return Stats{
		ChunkCount:      count,
		VectorCount:     s.dense.Len(),
		TermCount:       s.sparse.TermCount(),
		DenseAvailable:  s.embedder != nil,
		SparseAvailable: s.sparse.Available(),
	}
}
