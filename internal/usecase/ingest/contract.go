package ingest

import (
	"context"

	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/domain/chunk"
	"github.com/kailas-cloud/redraft/internal/index"
)

// Chunker splits a document into indexable chunks.
type Chunker interface {
	Chunk(ctx context.Context, doc domain.Document) ([]chunk.Chunk, error)
}

// Index accepts chunks into the in-process search indexes.
type Index interface {
	AddChunks(ctx context.Context, chunks []chunk.Chunk) index.AddResult
	RemoveDocument(docID string) []string
	Stats() index.Stats
}

// Persister is the optional durable corpus behind the in-process indexes.
type Persister interface {
	Save(ctx context.Context, chunks []chunk.Chunk) error
	LoadAll(ctx context.Context) ([]chunk.Chunk, error)
	DeleteDocument(ctx context.Context, docID string) (int, error)
}
