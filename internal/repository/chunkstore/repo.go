// Package chunkstore persists the indexed chunk corpus in Redis so the
// in-process indexes can be rebuilt on startup.
package chunkstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/db"
	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/domain/chunk"
)

// Repo stores chunks as Redis hashes under "<prefix>chunk:<chunk id>".
// Chunk ids embed the document id ("<doc id>:<index>"), so per-document
// operations are a key-pattern scan.
type Repo struct {
	store  db.HashStore
	prefix string
	logger *zap.Logger
}

func New(store db.HashStore, keyPrefix string, logger *zap.Logger) *Repo {
	return &Repo{
		store:  store,
		prefix: keyPrefix + "chunk:",
		logger: logger,
	}
}

func (r *Repo) key(chunkID string) string {
	return r.prefix + chunkID
}

// Save writes all chunks in one pipelined round trip.
func (r *Repo) Save(ctx context.Context, chunks []chunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, 0, len(chunks))
	for i := range chunks {
		fields, err := toHash(&chunks[i])
		if err != nil {
			return fmt.Errorf("encode chunk %s: %w", chunks[i].ID(), err)
		}
		items = append(items, db.HashSetItem{Key: r.key(chunks[i].ID()), Fields: fields})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}
	return nil
}

// Get loads a single chunk by id.
func (r *Repo) Get(ctx context.Context, chunkID string) (chunk.Chunk, error) {
	fields, err := r.store.HGetAll(ctx, r.key(chunkID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return chunk.Chunk{}, domain.ErrNotFound
		}
		return chunk.Chunk{}, fmt.Errorf("get chunk %s: %w", chunkID, err)
	}
	if len(fields) == 0 {
		return chunk.Chunk{}, domain.ErrNotFound
	}
	return fromHash(fields)
}

// LoadAll returns the full persisted corpus sorted by chunk id, so index
// rebuilds see a stable insertion order across restarts.
func (r *Repo) LoadAll(ctx context.Context) ([]chunk.Chunk, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	chunks := make([]chunk.Chunk, 0, len(rows))
	for i, fields := range rows {
		if len(fields) == 0 {
			continue
		}
		c, err := fromHash(fields)
		if err != nil {
			r.logger.Warn("skipping corrupt chunk record", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// DeleteDocument removes every persisted chunk of a document and reports
// how many keys were deleted. The scan pattern alone is not exact: one
// document id plus a colon can prefix another ("a" matches chunks of
// "a:b"), so each candidate's stored source document id is checked before
// the key is deleted.
func (r *Repo) DeleteDocument(ctx context.Context, docID string) (int, error) {
	keys, err := r.store.Scan(ctx, r.prefix+globEscape(docID)+":*")
	if err != nil {
		return 0, fmt.Errorf("scan document %s: %w", docID, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return 0, fmt.Errorf("load document %s chunks: %w", docID, err)
	}

	deleted := 0
	for i, fields := range rows {
		if fields["source_doc_id"] != docID {
			continue
		}
		if err := r.store.Del(ctx, keys[i]); err != nil {
			return deleted, fmt.Errorf("delete %s: %w", keys[i], err)
		}
		deleted++
	}
	return deleted, nil
}

// globEscape neutralizes Redis MATCH metacharacters in a document id so the
// scan pattern matches the id literally.
func globEscape(s string) string {
	if !strings.ContainsAny(s, `*?[]\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
