package chunker

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/domain/chunk"
)

// --- Mocks ---

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (m *stubEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	vec, ok := m.vectors[text]
	if !ok {
		vec = []float32{1, 0}
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// --- Tests ---

func doc(id, content string) domain.Document {
	return domain.Document{
		ID:         id,
		Content:    content,
		FileName:   "guide.md",
		SourceType: "style_guide",
		Title:      "Style Guide",
	}
}

func TestChunkFixed_OverlapScenario(t *testing.T) {
	text := "Setup requires that you click on Submit."
	c := New(Config{Method: MethodFixed, ChunkSize: 20, OverlapSize: 10}, nil, nil, nil)

	chunks, err := c.Chunk(context.Background(), doc("d1", text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	if chunks[0].StartChar() != 0 {
		t.Errorf("first chunk starts at %d, want 0", chunks[0].StartChar())
	}
	if last := chunks[len(chunks)-1]; last.EndChar() != len(text) {
		t.Errorf("last chunk ends at %d, want %d", last.EndChar(), len(text))
	}

	covered := make([]bool, len(text))
	for i, ch := range chunks {
		if i > 0 && ch.StartChar() <= chunks[i-1].StartChar() {
			t.Errorf("chunk %d start %d does not advance past %d", i, ch.StartChar(), chunks[i-1].StartChar())
		}
		if ch.ChunkType() != chunk.Fixed {
			t.Errorf("chunk %d type = %q, want %q", i, ch.ChunkType(), chunk.Fixed)
		}
		for p := ch.StartChar(); p < ch.EndChar(); p++ {
			covered[p] = true
		}
	}
	for p, ok := range covered {
		if !ok {
			t.Fatalf("character %d not covered by any chunk", p)
		}
	}
}

func TestChunkFixed_WordBoundaryBackoff(t *testing.T) {
	// A window of 20 cuts inside "eeeee", and the last space (index 18)
	// sits past 80% of the window, so the end must back off to it.
	text := "aaaa bbbb cccc ddd eeeee fff"
	c := New(Config{Method: MethodFixed, ChunkSize: 20, OverlapSize: 0}, nil, nil, nil)

	chunks, err := c.Chunk(context.Background(), doc("d1", text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if got := chunks[0].Content(); got != "aaaa bbbb cccc ddd" {
		t.Errorf("first chunk = %q, want back-off at last space", got)
	}
	if chunks[0].EndChar() != 18 {
		t.Errorf("first chunk ends at %d, want 18", chunks[0].EndChar())
	}
	if last := chunks[1]; last.EndChar() != len(text) {
		t.Errorf("last chunk ends at %d, want %d", last.EndChar(), len(text))
	}
}

func TestChunkFixed_TerminatesOnDegenerateOverlap(t *testing.T) {
	// Overlap >= size would loop forever without the forward-progress
	// guard; the chunker clamps it instead.
	c := New(Config{Method: MethodFixed, ChunkSize: 10, OverlapSize: 10}, nil, nil, nil)

	chunks, err := c.Chunk(context.Background(), doc("d1", strings.Repeat("word ", 40)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartChar() <= chunks[i-1].StartChar() {
			t.Fatalf("start did not advance at chunk %d", i)
		}
	}
}

func TestChunkFixed_MultiByteRuneBoundaries(t *testing.T) {
	// Byte-sized windows land inside the two-byte umlauts; every edge must
	// snap to a rune start so no chunk carries a truncated sequence.
	text := "Die Bestätigung über das Menü für die Veröffentlichung erfolgt über das Menü."
	c := New(Config{Method: MethodFixed, ChunkSize: 20, OverlapSize: 5}, nil, nil, nil)

	chunks, err := c.Chunk(context.Background(), doc("d1", text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	covered := make([]bool, len(text))
	for i, ch := range chunks {
		if !utf8.ValidString(ch.Content()) {
			t.Errorf("chunk %d content %q is not valid UTF-8", i, ch.Content())
		}
		if i > 0 && ch.StartChar() <= chunks[i-1].StartChar() {
			t.Errorf("chunk %d start %d does not advance past %d", i, ch.StartChar(), chunks[i-1].StartChar())
		}
		for p := ch.StartChar(); p < ch.EndChar(); p++ {
			covered[p] = true
		}
	}
	if last := chunks[len(chunks)-1]; last.EndChar() != len(text) {
		t.Errorf("last chunk ends at %d, want %d", last.EndChar(), len(text))
	}
	for p, ok := range covered {
		if !ok {
			t.Fatalf("byte %d not covered by any chunk", p)
		}
	}
}

func TestChunkSentences_Grouping(t *testing.T) {
	text := "One fish. Two fish. Red fish. Blue fish."
	c := New(Config{Method: MethodSentence, TargetSize: 25}, nil, nil, nil)

	chunks, err := c.Chunk(context.Background(), doc("d1", text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if got := chunks[0].Content(); got != "One fish. Two fish." {
		t.Errorf("first chunk = %q", got)
	}
	if got := chunks[1].Content(); got != "Red fish. Blue fish." {
		t.Errorf("second chunk = %q", got)
	}
	for _, ch := range chunks {
		if ch.ChunkType() != chunk.Sentence {
			t.Errorf("chunk type = %q, want %q", ch.ChunkType(), chunk.Sentence)
		}
	}
}

func TestChunkSentences_OversizedSentenceKept(t *testing.T) {
	text := "This single sentence is far longer than the target size allows."
	c := New(Config{Method: MethodSentence, TargetSize: 10}, nil, nil, nil)

	chunks, err := c.Chunk(context.Background(), doc("d1", text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content() != text {
		t.Errorf("oversized sentence was altered: %q", chunks[0].Content())
	}
}

func TestChunkParagraphs(t *testing.T) {
	text := "Para one line.\n\nPara two line.\n\nThis is a much longer paragraph. It has two sentences."
	c := New(Config{Method: MethodParagraph, TargetSize: 20}, nil, nil, nil)

	chunks, err := c.Chunk(context.Background(), doc("d1", text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}

	wantTypes := []chunk.Type{chunk.Paragraph, chunk.Paragraph, chunk.ParagraphSplit, chunk.ParagraphSplit}
	for i, tp := range wantTypes {
		if chunks[i].ChunkType() != tp {
			t.Errorf("chunk %d type = %q, want %q", i, chunks[i].ChunkType(), tp)
		}
	}

	// Offsets must be document coordinates, not paragraph-local ones.
	for i, ch := range chunks {
		if got := text[ch.StartChar():ch.EndChar()]; got != ch.Content() {
			t.Errorf("chunk %d span mismatch: span %q vs content %q", i, got, ch.Content())
		}
	}
}

func TestChunkSemantic_BoundaryOnSimilarityDrop(t *testing.T) {
	text := "Alpha one. Alpha two. Zebra three."
	emb := &stubEmbedder{vectors: map[string][]float32{
		"Alpha one.":   {1, 0},
		"Alpha two.":   {1, 0},
		"Zebra three.": {0, 1},
	}}
	c := New(Config{
		Method: MethodSemantic, ChunkSize: 100, TargetSize: 40,
		SimilarityThreshold: 0.5, MinFactor: 0.1, MaxFactor: 10,
	}, nil, emb, nil)

	chunks, err := c.Chunk(context.Background(), doc("d1", text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if got := chunks[0].Content(); got != "Alpha one. Alpha two." {
		t.Errorf("first chunk = %q", got)
	}
	if got := chunks[1].Content(); got != "Zebra three." {
		t.Errorf("second chunk = %q", got)
	}
	for _, ch := range chunks {
		if ch.ChunkType() != chunk.Semantic {
			t.Errorf("chunk type = %q, want %q", ch.ChunkType(), chunk.Semantic)
		}
	}
}

func TestChunkSemantic_EmbedErrorFallsBackToFixed(t *testing.T) {
	text := "Alpha one. Alpha two. Zebra three."
	emb := &stubEmbedder{err: errors.New("provider down")}
	c := New(Config{
		Method: MethodSemantic, ChunkSize: 100, TargetSize: 40,
		SimilarityThreshold: 0.5, MinFactor: 0.1, MaxFactor: 10,
	}, nil, emb, nil)

	chunks, err := c.Chunk(context.Background(), doc("d1", text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected fallback chunks")
	}
	for _, ch := range chunks {
		if ch.ChunkType() != chunk.Fixed {
			t.Errorf("fallback chunk type = %q, want %q", ch.ChunkType(), chunk.Fixed)
		}
	}
}

func TestChunkSemantic_NilEmbedderFallsBackToFixed(t *testing.T) {
	c := New(Config{Method: MethodSemantic, ChunkSize: 100, TargetSize: 40}, nil, nil, nil)

	chunks, err := c.Chunk(context.Background(), doc("d1", "Alpha one. Alpha two."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ch := range chunks {
		if ch.ChunkType() != chunk.Fixed {
			t.Errorf("chunk type = %q, want %q", ch.ChunkType(), chunk.Fixed)
		}
	}
}

func TestAdaptive_MethodSelection(t *testing.T) {
	cfg := Config{
		Method: MethodAdaptive, ChunkSize: 500, TargetSize: 600,
		SimilarityThreshold: 0.6, MinFactor: 0.5, MaxFactor: 1.5,
	}

	tests := []struct {
		name       string
		content    string
		embedder   domain.Embedder
		wantMethod string
	}{
		{
			name:       "many short paragraphs",
			content:    "Para one.\n\nPara two.\n\nPara three.\n\nPara four.",
			wantMethod: MethodParagraph,
		},
		{
			name:       "long text with embedder",
			content:    strings.Repeat("alpha beta ", 51),
			embedder:   &stubEmbedder{},
			wantMethod: MethodSemantic,
		},
		{
			name:       "medium text without embedder",
			content:    strings.Repeat("alpha beta ", 26),
			wantMethod: MethodSentence,
		},
		{
			name:       "short text",
			content:    "Just a few words here.",
			wantMethod: MethodFixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(cfg, nil, tt.embedder, nil)
			chunks, err := c.Chunk(context.Background(), doc("d1", tt.content))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(chunks) == 0 {
				t.Fatal("expected chunks")
			}
			if got := chunks[0].Metadata()["chunking_method"]; got != tt.wantMethod {
				t.Errorf("chunking_method = %q, want %q", got, tt.wantMethod)
			}
		})
	}
}

func TestChunk_EmptyDocument(t *testing.T) {
	for _, method := range []string{MethodAdaptive, MethodFixed, MethodSentence, MethodParagraph, MethodSemantic} {
		c := New(Config{Method: method, ChunkSize: 100, TargetSize: 100, MinFactor: 0.5, MaxFactor: 1.5}, nil, nil, nil)
		for _, content := range []string{"", "   \n\t  "} {
			chunks, err := c.Chunk(context.Background(), doc("d1", content))
			if err != nil {
				t.Fatalf("method %s: unexpected error: %v", method, err)
			}
			if len(chunks) != 0 {
				t.Errorf("method %s: expected no chunks for blank input, got %d", method, len(chunks))
			}
		}
	}
}

func TestChunk_MetadataAndIDs(t *testing.T) {
	d := doc("doc-7", "One fish. Two fish. Red fish. Blue fish.")
	d.Metadata = map[string]string{"team": "docs"}
	c := New(Config{Method: MethodSentence, TargetSize: 25}, nil, nil, nil)

	chunks, err := c.Chunk(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if got := chunks[0].ID(); got != "doc-7:0000" {
		t.Errorf("first chunk id = %q", got)
	}
	if got := chunks[1].ID(); got != "doc-7:0001" {
		t.Errorf("second chunk id = %q", got)
	}

	meta := chunks[0].Metadata()
	for key, want := range map[string]string{
		"team":            "docs",
		"source_file":     "guide.md",
		"source_type":     "style_guide",
		"doc_title":       "Style Guide",
		"chunking_method": MethodSentence,
	} {
		if meta[key] != want {
			t.Errorf("metadata[%q] = %q, want %q", key, meta[key], want)
		}
	}
	if chunks[0].SourceDocID() != "doc-7" {
		t.Errorf("source doc id = %q", chunks[0].SourceDocID())
	}
}

func TestChunk_Deterministic(t *testing.T) {
	d := doc("d1", "Para one line.\n\nPara two line.\n\nThis is a much longer paragraph. It has two sentences.")
	c := New(Config{Method: MethodParagraph, TargetSize: 20}, nil, nil, nil)

	first, err := c.Chunk(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Chunk(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different chunkings")
	}
}
