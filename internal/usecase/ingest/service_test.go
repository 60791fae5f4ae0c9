package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/domain/chunk"
	"github.com/kailas-cloud/redraft/internal/index"
)

// --- Mocks ---

type stubChunker struct {
	chunks []chunk.Chunk
	err    error
	gotDoc domain.Document
}

func (s *stubChunker) Chunk(_ context.Context, doc domain.Document) ([]chunk.Chunk, error) {
	s.gotDoc = doc
	return s.chunks, s.err
}

type stubIndex struct {
	addResult index.AddResult
	removed   []string
	stats     index.Stats

	addedChunks []chunk.Chunk
}

func (s *stubIndex) AddChunks(_ context.Context, chunks []chunk.Chunk) index.AddResult {
	s.addedChunks = append(s.addedChunks, chunks...)
	return s.addResult
}

func (s *stubIndex) RemoveDocument(string) []string { return s.removed }

func (s *stubIndex) Stats() index.Stats { return s.stats }

type stubPersister struct {
	saved     []chunk.Chunk
	saveErr   error
	loaded    []chunk.Chunk
	loadErr   error
	deleted   int
	deleteErr error
	saveCalls int
	loadCalls int
}

func (s *stubPersister) Save(_ context.Context, chunks []chunk.Chunk) error {
	s.saveCalls++
	s.saved = append(s.saved, chunks...)
	return s.saveErr
}

func (s *stubPersister) LoadAll(context.Context) ([]chunk.Chunk, error) {
	s.loadCalls++
	return s.loaded, s.loadErr
}

func (s *stubPersister) DeleteDocument(context.Context, string) (int, error) {
	return s.deleted, s.deleteErr
}

func testChunks(t *testing.T, n int) []chunk.Chunk {
	t.Helper()
	meta := map[string]string{"chunking_method": "fixed"}
	out := make([]chunk.Chunk, n)
	for i := range out {
		c, err := chunk.New("doc-1:0000", "some content", 0, 12, chunk.Fixed, "doc-1", meta)
		if err != nil {
			t.Fatalf("build chunk: %v", err)
		}
		out[i] = c
	}
	return out
}

// --- Tests ---

func TestIngest(t *testing.T) {
	chunks := testChunks(t, 2)
	ch := &stubChunker{chunks: chunks}
	idx := &stubIndex{addResult: index.AddResult{Added: 2, DenseOK: true, SparseOK: true}}
	p := &stubPersister{}
	svc := New(ch, idx, p, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	result, err := svc.Ingest(context.Background(), domain.Document{ID: "doc-1", Content: "some content"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.DocumentID != "doc-1" || result.ChunkCount != 2 || result.Method != "fixed" {
		t.Errorf("result = %+v", result)
	}
	if !result.DenseOK || !result.SparseOK {
		t.Errorf("engine flags = %+v", result)
	}
	if len(idx.addedChunks) != 2 {
		t.Errorf("indexed %d chunks, want 2", len(idx.addedChunks))
	}
	if p.saveCalls != 1 || len(p.saved) != 2 {
		t.Errorf("persister calls = %d, saved = %d", p.saveCalls, len(p.saved))
	}
	if got := ch.gotDoc.Metadata["ingested_at"]; got != "2026-03-01T12:00:00Z" {
		t.Errorf("ingested_at = %q", got)
	}
}

func TestIngest_ValidationErrors(t *testing.T) {
	svc := New(&stubChunker{}, &stubIndex{}, nil, zap.NewNop())

	tests := []struct {
		name string
		doc  domain.Document
	}{
		{"blank id", domain.Document{ID: "  ", Content: "text"}},
		{"blank content", domain.Document{ID: "doc-1", Content: " \n\t "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Ingest(context.Background(), tt.doc)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("err = %v, want domain.ErrInvalidRequest", err)
			}
		})
	}
}

func TestIngest_EmptyChunkingIsNotAnError(t *testing.T) {
	idx := &stubIndex{}
	svc := New(&stubChunker{}, idx, nil, zap.NewNop())

	result, err := svc.Ingest(context.Background(), domain.Document{ID: "doc-1", Content: "words"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.ChunkCount != 0 {
		t.Errorf("chunk count = %d, want 0", result.ChunkCount)
	}
	if len(idx.addedChunks) != 0 {
		t.Error("index must not be touched for an empty chunking")
	}
}

func TestIngest_PersistFailureIsBestEffort(t *testing.T) {
	chunks := testChunks(t, 1)
	idx := &stubIndex{addResult: index.AddResult{Added: 1, SparseOK: true}}
	p := &stubPersister{saveErr: errors.New("redis down")}
	svc := New(&stubChunker{chunks: chunks}, idx, p, zap.NewNop())

	result, err := svc.Ingest(context.Background(), domain.Document{ID: "doc-1", Content: "words"})
	if err != nil {
		t.Fatalf("ingest must not fail on persistence: %v", err)
	}
	if result.ChunkCount != 1 {
		t.Errorf("chunk count = %d, want 1", result.ChunkCount)
	}
}

func TestIngest_ChunkerErrorPropagates(t *testing.T) {
	wantErr := errors.New("embedder exploded")
	svc := New(&stubChunker{err: wantErr}, &stubIndex{}, nil, zap.NewNop())

	if _, err := svc.Ingest(context.Background(), domain.Document{ID: "d", Content: "c"}); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped chunker error", err)
	}
}

func TestRemove(t *testing.T) {
	idx := &stubIndex{removed: []string{"doc-1:0000", "doc-1:0001"}}
	svc := New(&stubChunker{}, idx, &stubPersister{deleted: 2}, zap.NewNop())

	count, err := svc.Remove(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if count != 2 {
		t.Errorf("removed = %d, want 2", count)
	}
}

func TestRemove_UnknownDocument(t *testing.T) {
	svc := New(&stubChunker{}, &stubIndex{}, nil, zap.NewNop())

	_, err := svc.Remove(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("err = %v, want domain.ErrDocumentNotFound", err)
	}
}

func TestRemove_PersistedOnlyDocumentStillCounts(t *testing.T) {
	// Index lost the document (say, after a crash) but storage still has it.
	svc := New(&stubChunker{}, &stubIndex{}, &stubPersister{deleted: 3}, zap.NewNop())

	count, err := svc.Remove(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if count != 0 {
		t.Errorf("index removals = %d, want 0", count)
	}
}

func TestWarmStart(t *testing.T) {
	chunks := testChunks(t, 3)
	idx := &stubIndex{addResult: index.AddResult{Added: 3, SparseOK: true}}
	p := &stubPersister{loaded: chunks}
	svc := New(&stubChunker{}, idx, p, zap.NewNop())

	added, err := svc.WarmStart(context.Background())
	if err != nil {
		t.Fatalf("warm start: %v", err)
	}
	if added != 3 {
		t.Errorf("added = %d, want 3", added)
	}
	if len(idx.addedChunks) != 3 {
		t.Errorf("indexed %d chunks, want 3", len(idx.addedChunks))
	}
}

func TestWarmStart_NilPersisterIsNoOp(t *testing.T) {
	idx := &stubIndex{}
	svc := New(&stubChunker{}, idx, nil, zap.NewNop())

	added, err := svc.WarmStart(context.Background())
	if err != nil || added != 0 {
		t.Errorf("warm start = (%d, %v), want no-op", added, err)
	}
}

func TestWarmStart_LoadErrorPropagates(t *testing.T) {
	wantErr := errors.New("scan failed")
	svc := New(&stubChunker{}, &stubIndex{}, &stubPersister{loadErr: wantErr}, zap.NewNop())

	if _, err := svc.WarmStart(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped load error", err)
	}
}
