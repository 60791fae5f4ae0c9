package retrieval

import "github.com/kailas-cloud/redraft/internal/domain/chunk"

// Filter narrows retrieval candidates by chunk metadata. The zero value
// matches everything.
type Filter struct {
	SourceType string
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool { return f.SourceType == "" }

// Matches reports whether the chunk passes the filter.
func (f Filter) Matches(c *chunk.Chunk) bool {
	if f.SourceType == "" {
		return true
	}
	return c.Metadata()["source_type"] == f.SourceType
}
