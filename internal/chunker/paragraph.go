package chunker

import (
	"regexp"

	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/domain/chunk"
)

// paragraphSep matches blank-line separators between paragraphs.
var paragraphSep = regexp.MustCompile(`\n[ \t]*\n`)

// chunkParagraphs splits on blank lines. A paragraph within TargetSize
// becomes one chunk; an oversized paragraph is recursively split via the
// sentence strategy with offsets translated back into document coordinates.
func (c *Chunker) chunkParagraphs(text string) []piece {
	var pieces []piece
	for _, span := range paragraphSpans(text) {
		if span.End-span.Start <= c.cfg.TargetSize {
			pieces = append(pieces, piece{start: span.Start, end: span.End, typ: chunk.Paragraph})
			continue
		}
		sub := c.chunkSentences(text[span.Start:span.End], span.Start, chunk.ParagraphSplit)
		pieces = append(pieces, sub...)
	}
	return pieces
}

// paragraphSpans returns trimmed spans of the blank-line-separated
// paragraphs of text.
func paragraphSpans(text string) []domain.Span {
	var spans []domain.Span
	prev := 0
	for _, m := range paragraphSep.FindAllStringIndex(text, -1) {
		if s, ok := trimSpan(text, prev, m[0]); ok {
			spans = append(spans, s)
		}
		prev = m[1]
	}
	if s, ok := trimSpan(text, prev, len(text)); ok {
		spans = append(spans, s)
	}
	return spans
}
