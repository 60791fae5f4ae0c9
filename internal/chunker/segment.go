package chunker

import (
	"regexp"
	"unicode"

	"github.com/kailas-cloud/redraft/internal/domain"
)

// sentenceEnd matches a run of sentence terminators followed by whitespace
// or end of text.
var sentenceEnd = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

// regexSegmenter is the fallback sentence splitter used when no external
// segmentation collaborator is injected.
type regexSegmenter struct{}

// Segment returns ordered, non-overlapping sentence spans. Spans are trimmed
// to exclude surrounding whitespace. Text without any terminator yields a
// single span.
func (regexSegmenter) Segment(text string) []domain.Span {
	if text == "" {
		return nil
	}

	var spans []domain.Span
	prev := 0
	for _, m := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s, ok := trimSpan(text, prev, m[1]); ok {
			spans = append(spans, s)
		}
		prev = m[1]
	}
	if prev < len(text) {
		if s, ok := trimSpan(text, prev, len(text)); ok {
			spans = append(spans, s)
		}
	}
	return spans
}

// trimSpan shrinks [start, end) to exclude leading and trailing whitespace.
// Returns false when nothing remains.
func trimSpan(text string, start, end int) (domain.Span, bool) {
	for start < end && unicode.IsSpace(rune(text[start])) {
		start++
	}
	for end > start && unicode.IsSpace(rune(text[end-1])) {
		end--
	}
	if start >= end {
		return domain.Span{}, false
	}
	return domain.Span{Start: start, End: end}, true
}
