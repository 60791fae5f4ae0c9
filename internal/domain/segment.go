package domain

// Span is a half-open [Start, End) byte range into a text.
type Span struct {
	Start int
	End   int
}

// Segmenter splits text into ordered, non-overlapping sentence spans.
// The chunker falls back to a regex splitter when no Segmenter is injected.
type Segmenter interface {
	Segment(text string) []Span
}
