// Package ingest coordinates chunking, indexing, and durable persistence of
// documents.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/index"
	"github.com/kailas-cloud/redraft/internal/metrics"
)

// Result reports what happened to an ingested document.
type Result struct {
	DocumentID string
	ChunkCount int
	Method     string
	DenseOK    bool
	SparseOK   bool
}

// Service runs the document ingestion pipeline.
type Service struct {
	chunker   Chunker
	index     Index
	persister Persister // nil when running memory-only
	logger    *zap.Logger
	now       func() time.Time
}

func New(chunker Chunker, idx Index, persister Persister, logger *zap.Logger) *Service {
	return &Service{
		chunker:   chunker,
		index:     idx,
		persister: persister,
		logger:    logger,
		now:       time.Now,
	}
}

// Ingest chunks a document and adds it to both indexes. Persistence is best
// effort: a storage failure is logged but does not fail the ingest.
func (s *Service) Ingest(ctx context.Context, doc domain.Document) (Result, error) {
	if strings.TrimSpace(doc.ID) == "" {
		return Result{}, fmt.Errorf("%w: document id is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return Result{}, fmt.Errorf("%w: document content is empty", domain.ErrInvalidRequest)
	}

	if doc.Metadata == nil {
		doc.Metadata = make(map[string]string)
	}
	doc.Metadata["ingested_at"] = s.now().UTC().Format(time.RFC3339)

	chunks, err := s.chunker.Chunk(ctx, doc)
	if err != nil {
		return Result{}, fmt.Errorf("chunk document %s: %w", doc.ID, err)
	}
	if len(chunks) == 0 {
		return Result{DocumentID: doc.ID}, nil
	}

	added := s.index.AddChunks(ctx, chunks)
	method := chunks[0].Metadata()["chunking_method"]
	metrics.ChunksIndexedTotal.WithLabelValues(method).Add(float64(added.Added))

	if s.persister != nil {
		if err := s.persister.Save(ctx, chunks); err != nil {
			s.logger.Warn("Failed to persist chunks",
				zap.String("document_id", doc.ID), zap.Error(err))
		}
	}

	s.logger.Info("Document ingested",
		zap.String("document_id", doc.ID),
		zap.String("method", method),
		zap.Int("chunks", added.Added),
		zap.Bool("dense_ok", added.DenseOK),
		zap.Bool("sparse_ok", added.SparseOK))

	return Result{
		DocumentID: doc.ID,
		ChunkCount: added.Added,
		Method:     method,
		DenseOK:    added.DenseOK,
		SparseOK:   added.SparseOK,
	}, nil
}

// Remove drops a document from the indexes and durable storage. Returns the
// number of chunks removed from the indexes.
func (s *Service) Remove(ctx context.Context, docID string) (int, error) {
	if strings.TrimSpace(docID) == "" {
		return 0, fmt.Errorf("%w: document id is required", domain.ErrInvalidRequest)
	}

	removed := s.index.RemoveDocument(docID)

	persisted := 0
	if s.persister != nil {
		var err error
		persisted, err = s.persister.DeleteDocument(ctx, docID)
		if err != nil {
			s.logger.Warn("Failed to delete persisted chunks",
				zap.String("document_id", docID), zap.Error(err))
		}
	}

	if len(removed) == 0 && persisted == 0 {
		return 0, fmt.Errorf("document %s: %w", docID, domain.ErrDocumentNotFound)
	}

	s.logger.Info("Document removed",
		zap.String("document_id", docID), zap.Int("chunks", len(removed)))
	return len(removed), nil
}

// WarmStart reloads the persisted corpus into the in-process indexes.
// Called once at boot; a nil persister makes it a no-op.
func (s *Service) WarmStart(ctx context.Context) (int, error) {
	if s.persister == nil {
		return 0, nil
	}

	chunks, err := s.persister.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load persisted corpus: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	added := s.index.AddChunks(ctx, chunks)
	s.logger.Info("Indexes warmed from storage",
		zap.Int("chunks", added.Added),
		zap.Bool("dense_ok", added.DenseOK),
		zap.Bool("sparse_ok", added.SparseOK))
	return added.Added, nil
}

// Stats exposes index statistics for the API layer.
func (s *Service) Stats() index.Stats {
	return s.index.Stats()
}
