// Package dense provides an in-memory embedding vector table with
// incremental insertion and brute-force nearest-neighbour search.
package dense

import (
	"math"
	"sort"
	"sync"
)

// Hit is a single nearest-neighbour match.
type Hit struct {
	ChunkID string
	// Distance is cosine distance (1 - cosine similarity), lower is closer.
	Distance float64
}

// Table maps chunk ids to embedding vectors. Insertion order is retained so
// searches are deterministic under score ties.
type Table struct {
	mu      sync.RWMutex
	ids     []string
	vectors [][]float32
	byID    map[string]int
}

// New creates an empty table.
func New() *Table {
	return &Table{byID: make(map[string]int)}
}

// Add inserts a vector under the given chunk id. Re-adding an existing id is
// a no-op so ingest stays idempotent.
func (t *Table) Add(chunkID string, vector []float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byID[chunkID]; ok {
		return
	}
	t.byID[chunkID] = len(t.ids)
	t.ids = append(t.ids, chunkID)
	t.vectors = append(t.vectors, vector)
}

// Remove drops the vectors for the given chunk ids.
func (t *Table) Remove(chunkIDs []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	drop := make(map[string]struct{}, len(chunkIDs))
	for _, id := range chunkIDs {
		drop[id] = struct{}{}
	}

	ids := t.ids[:0]
	vectors := t.vectors[:0]
	byID := make(map[string]int, len(t.byID))
	for i, id := range t.ids {
		if _, gone := drop[id]; gone {
			continue
		}
		byID[id] = len(ids)
		ids = append(ids, id)
		vectors = append(vectors, t.vectors[i])
	}
	t.ids = ids
	t.vectors = vectors
	t.byID = byID
}

// Len returns the number of stored vectors.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}

// Search returns the k nearest vectors by cosine distance. Ties are broken
// by insertion order (stable sort) for determinism.
func (t *Table) Search(query []float32, k int) []Hit {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if k <= 0 || len(t.ids) == 0 || len(query) == 0 {
		return nil
	}

	hits := make([]Hit, 0, len(t.ids))
	for i, vec := range t.vectors {
		sim, ok := cosine(query, vec)
		if !ok {
			continue
		}
		hits = append(hits, Hit{ChunkID: t.ids[i], Distance: 1 - sim})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// cosine computes cosine similarity. Returns false on dimension mismatch or
// zero-magnitude vectors.
func cosine(a, b []float32) (float64, bool) {
	if len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
