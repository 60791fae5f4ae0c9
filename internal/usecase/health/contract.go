package health

import (
	"context"

	"github.com/kailas-cloud/redraft/internal/index"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// IndexReporter exposes search index availability.
type IndexReporter interface {
	Stats() index.Stats
}
