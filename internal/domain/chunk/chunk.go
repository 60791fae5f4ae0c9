package chunk

import (
	"fmt"
	"strings"
)

// Type tags the chunking strategy that produced a chunk.
type Type string

// Chunk type constants.
const (
	Fixed          Type = "fixed"
	Sentence       Type = "sentence"
	Paragraph      Type = "paragraph"
	ParagraphSplit Type = "paragraph_split"
	Semantic       Type = "semantic"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	switch t {
	case Fixed, Sentence, Paragraph, ParagraphSplit, Semantic:
		return true
	}
	return false
}

// Chunk is a contiguous span of a source document, the atomic unit of
// indexing and retrieval. Immutable once created.
type Chunk struct {
	id          string
	content     string
	startChar   int
	endChar     int
	chunkType   Type
	wordCount   int
	sourceDocID string
	metadata    map[string]string
}

// New validates and creates a Chunk. The word count is derived from content.
func New(
	id, content string, startChar, endChar int,
	chunkType Type, sourceDocID string, metadata map[string]string,
) (Chunk, error) {
	if id == "" {
		return Chunk{}, fmt.Errorf("chunk ID is required")
	}
	if startChar < 0 || startChar >= endChar {
		return Chunk{}, fmt.Errorf("invalid chunk span [%d, %d)", startChar, endChar)
	}
	if !chunkType.IsValid() {
		return Chunk{}, fmt.Errorf("invalid chunk type %q", chunkType)
	}

	return Chunk{
		id:          id,
		content:     content,
		startChar:   startChar,
		endChar:     endChar,
		chunkType:   chunkType,
		wordCount:   len(strings.Fields(content)),
		sourceDocID: sourceDocID,
		metadata:    cloneMap(metadata),
	}, nil
}

// Reconstruct creates a Chunk without validation (storage hydration).
func Reconstruct(
	id, content string, startChar, endChar int,
	chunkType Type, wordCount int, sourceDocID string, metadata map[string]string,
) Chunk {
	return Chunk{
		id: id, content: content, startChar: startChar, endChar: endChar,
		chunkType: chunkType, wordCount: wordCount, sourceDocID: sourceDocID,
		metadata: metadata,
	}
}

// ID returns the chunk identifier, unique within the source document.
func (c *Chunk) ID() string { return c.id }

// Content returns the chunk text.
func (c *Chunk) Content() string { return c.content }

// StartChar returns the start offset into the source document.
func (c *Chunk) StartChar() int { return c.startChar }

// EndChar returns the end offset into the source document.
func (c *Chunk) EndChar() int { return c.endChar }

// ChunkType returns the strategy tag.
func (c *Chunk) ChunkType() Type { return c.chunkType }

// WordCount returns the number of whitespace-separated words in the content.
func (c *Chunk) WordCount() int { return c.wordCount }

// SourceDocID returns the owning document's identifier.
func (c *Chunk) SourceDocID() string { return c.sourceDocID }

// Metadata returns the document-level metadata stamped onto the chunk.
func (c *Chunk) Metadata() map[string]string { return c.metadata }

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
