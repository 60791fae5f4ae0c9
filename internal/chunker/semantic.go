package chunker

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/domain/chunk"
)

// chunkSemantic segments the text into sentences, embeds each one, and opens
// a chunk boundary where adjacent-sentence similarity drops, but only once
// the chunk has reached MinFactor of the target size, and unconditionally
// before it would exceed MaxFactor of the target size. The dual condition
// avoids over-fragmentation on noisy similarity and unbounded growth on a
// long topically-coherent run.
//
// Falls back to sentence grouping below two sentences, and to fixed-size
// chunking when no embedding model is available or embedding fails.
func (c *Chunker) chunkSemantic(ctx context.Context, text string) []piece {
	if c.embedder == nil {
		return c.chunkFixed(text)
	}

	spans := c.segmenter.Segment(text)
	if len(spans) < 2 {
		return c.groupSentences(spans, 0, chunk.Sentence)
	}

	texts := make([]string, len(spans))
	for i, s := range spans {
		texts[i] = text[s.Start:s.End]
	}

	batch, err := domain.EmbedAll(ctx, c.embedder, texts)
	if err != nil {
		c.logger.Warn("sentence embedding failed, falling back to fixed chunking", zap.Error(err))
		return c.chunkFixed(text)
	}

	minSize := c.cfg.MinFactor * float64(c.cfg.TargetSize)
	maxSize := c.cfg.MaxFactor * float64(c.cfg.TargetSize)

	var pieces []piece
	groupStart := spans[0].Start
	groupEnd := spans[0].End
	for i := 1; i < len(spans); i++ {
		size := float64(groupEnd - groupStart)
		sim := cosine32(batch.Embeddings[i-1], batch.Embeddings[i])

		drop := sim < c.cfg.SimilarityThreshold && size > minSize
		full := size+float64(spans[i].End-spans[i].Start) > maxSize
		if drop || full {
			pieces = append(pieces, piece{start: groupStart, end: groupEnd, typ: chunk.Semantic})
			groupStart = spans[i].Start
		}
		groupEnd = spans[i].End
	}
	pieces = append(pieces, piece{start: groupStart, end: groupEnd, typ: chunk.Semantic})
	return pieces
}

func cosine32(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
