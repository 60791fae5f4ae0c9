package retrieval

import (
	"context"

	"github.com/kailas-cloud/redraft/internal/domain/chunk"
	"github.com/kailas-cloud/redraft/internal/index"
	"github.com/kailas-cloud/redraft/internal/index/dense"
	"github.com/kailas-cloud/redraft/internal/index/sparse"
)

// Store is the consumer contract for the dual index store.
type Store interface {
	SearchDense(ctx context.Context, query string, k int) ([]dense.Hit, error)
	SearchSparse(query string, k int) []sparse.Hit
	Chunk(id string) (chunk.Chunk, bool)
	Stats() index.Stats
}
