package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/redraft/internal/domain/chunk"
)

// wordBoundaryFraction is how far into the window a space must lie for the
// mid-word back-off to use it. Backing off earlier would produce runt chunks.
const wordBoundaryFraction = 0.8

// chunkFixed advances a window of ChunkSize characters over the text. Window
// edges snap back to rune starts so multi-byte text is never split mid-rune.
// When the window would cut inside a word, the end backs off to the last
// space past wordBoundaryFraction of the window. The next window starts at
// end - OverlapSize; the start strictly increases on every iteration, so
// chunking terminates even on degenerate configurations.
func (c *Chunker) chunkFixed(text string) []piece {
	size := c.cfg.ChunkSize
	overlap := c.cfg.OverlapSize
	if size <= 0 {
		return nil
	}
	if overlap >= size {
		overlap = size / 4
	}

	var pieces []piece
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			pieces = append(pieces, piece{start: start, end: len(text), typ: chunk.Fixed})
			break
		}

		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
		if end == start {
			// Window smaller than the rune at start; take the whole rune.
			_, n := utf8.DecodeRuneInString(text[start:])
			end = start + n
		}

		if end < len(text) && !isBoundary(text, end) {
			boundary := start + int(float64(size)*wordBoundaryFraction)
			if sp := strings.LastIndexByte(text[start:end], ' '); sp >= 0 && start+sp >= boundary {
				end = start + sp
			}
		}

		pieces = append(pieces, piece{start: start, end: end, typ: chunk.Fixed})
		if end >= len(text) {
			break
		}

		next := end - overlap
		for next > start && !utf8.RuneStart(text[next]) {
			next--
		}
		if next <= start {
			next = start + 1
			for next < len(text) && !utf8.RuneStart(text[next]) {
				next++
			}
		}
		start = next
	}
	return pieces
}

// isBoundary reports whether position i sits on a word boundary.
func isBoundary(text string, i int) bool {
	return text[i] == ' ' || text[i] == '\n' || text[i] == '\t' || text[i-1] == ' '
}
