// Package chunker splits source documents into retrievable chunks under one
// of several strategies: fixed-size windows, sentence grouping,
// paragraph-based splitting, semantic (embedding-boundary) segmentation, or
// an adaptive dispatcher choosing among them from document statistics.
//
// Every strategy is deterministic for identical input and configuration.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/domain/chunk"
)

// Method names accepted by Config.Method.
const (
	MethodAdaptive  = "adaptive"
	MethodFixed     = "fixed"
	MethodSentence  = "sentence"
	MethodParagraph = "paragraph"
	MethodSemantic  = "semantic"
)

// Config holds chunking parameters. Semantic boundary constants are
// hand-tuned heuristics; they are configuration, not algorithmic truths.
type Config struct {
	Method      string
	ChunkSize   int
	OverlapSize int
	TargetSize  int

	SimilarityThreshold float64
	MinFactor           float64
	MaxFactor           float64
}

// Chunker turns one document's text into an ordered chunk list.
type Chunker struct {
	cfg       Config
	segmenter domain.Segmenter
	embedder  domain.Embedder // nil disables semantic chunking
	logger    *zap.Logger
}

// New creates a chunker. A nil segmenter falls back to the built-in regex
// sentence splitter; a nil embedder degrades semantic chunking to its
// documented fallbacks.
func New(cfg Config, segmenter domain.Segmenter, embedder domain.Embedder, logger *zap.Logger) *Chunker {
	if segmenter == nil {
		segmenter = regexSegmenter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chunker{cfg: cfg, segmenter: segmenter, embedder: embedder, logger: logger}
}

// piece is a strategy output span before chunk construction.
type piece struct {
	start int
	end   int
	typ   chunk.Type
}

// Chunk splits the document under the configured method. An empty or
// whitespace-only document yields zero chunks, not an error.
func (c *Chunker) Chunk(ctx context.Context, doc domain.Document) ([]chunk.Chunk, error) {
	text := doc.Content
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	method := c.cfg.Method
	if method == "" || method == MethodAdaptive {
		method = c.chooseMethod(text)
	}

	var pieces []piece
	switch method {
	case MethodFixed:
		pieces = c.chunkFixed(text)
	case MethodSentence:
		pieces = c.chunkSentences(text, 0, chunk.Sentence)
	case MethodParagraph:
		pieces = c.chunkParagraphs(text)
	case MethodSemantic:
		pieces = c.chunkSemantic(ctx, text)
	default:
		return nil, fmt.Errorf("unknown chunking method %q", method)
	}

	return c.build(doc, method, pieces)
}

// build constructs chunks from strategy spans and stamps document-level
// metadata onto each one.
func (c *Chunker) build(doc domain.Document, method string, pieces []piece) ([]chunk.Chunk, error) {
	chunks := make([]chunk.Chunk, 0, len(pieces))
	for i, p := range pieces {
		content := doc.Content[p.start:p.end]
		if strings.TrimSpace(content) == "" {
			continue
		}

		meta := make(map[string]string, len(doc.Metadata)+4)
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		meta["source_file"] = doc.FileName
		meta["source_type"] = doc.SourceType
		meta["doc_title"] = doc.Title
		meta["chunking_method"] = method

		id := fmt.Sprintf("%s:%04d", doc.ID, i)
		ch, err := chunk.New(id, content, p.start, p.end, p.typ, doc.ID, meta)
		if err != nil {
			return nil, fmt.Errorf("build chunk %s: %w", id, err)
		}
		chunks = append(chunks, ch)
	}
	return chunks, nil
}
