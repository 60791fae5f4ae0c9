package chunker

import (
	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/domain/chunk"
)

// chunkSentences greedily accumulates sentences into chunks until adding the
// next sentence would exceed TargetSize characters. offset translates spans
// into full-document coordinates when chunking a substring (paragraph
// splitting); typ tags the resulting pieces.
func (c *Chunker) chunkSentences(text string, offset int, typ chunk.Type) []piece {
	spans := c.segmenter.Segment(text)
	return c.groupSentences(spans, offset, typ)
}

// groupSentences closes a chunk whenever the span from the group's first
// sentence to the candidate's end would exceed TargetSize. A single
// oversized sentence still becomes its own chunk.
func (c *Chunker) groupSentences(spans []domain.Span, offset int, typ chunk.Type) []piece {
	if len(spans) == 0 {
		return nil
	}
	target := c.cfg.TargetSize

	var pieces []piece
	groupStart := spans[0].Start
	groupEnd := spans[0].End
	for _, s := range spans[1:] {
		if s.End-groupStart > target {
			pieces = append(pieces, piece{start: groupStart + offset, end: groupEnd + offset, typ: typ})
			groupStart = s.Start
		}
		groupEnd = s.End
	}
	pieces = append(pieces, piece{start: groupStart + offset, end: groupEnd + offset, typ: typ})
	return pieces
}
