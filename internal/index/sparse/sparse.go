// Package sparse provides a TF-IDF lexical index. The fitted model is
// rebuilt over the whole corpus on every addition and published with a
// copy-on-write swap, so in-flight searches always see a fully-formed model.
package sparse

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// Hit is a single lexical match.
type Hit struct {
	ChunkID string
	// Score is cosine similarity over TF-IDF vectors, in [0,1].
	Score float64
}

type entry struct {
	id      string
	content string
}

// Engine owns the corpus text and the current fitted model.
type Engine struct {
	mu      sync.Mutex // serializes writers; readers go through current only
	corpus  []entry
	byID    map[string]struct{}
	current atomic.Pointer[model]
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{byID: make(map[string]struct{})}
}

// Add appends new chunk texts to the corpus and refits the model over the
// full corpus. IDF weighting is only valid relative to every indexed
// document, so the refit is global, not incremental. Existing ids are
// ignored.
func (e *Engine) Add(chunks map[string]string, order []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := false
	for _, id := range order {
		if _, ok := e.byID[id]; ok {
			continue
		}
		e.byID[id] = struct{}{}
		e.corpus = append(e.corpus, entry{id: id, content: chunks[id]})
		added = true
	}
	if added {
		e.current.Store(fit(e.corpus))
	}
}

// Remove drops the given chunk ids and refits the model.
func (e *Engine) Remove(chunkIDs []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	drop := make(map[string]struct{}, len(chunkIDs))
	for _, id := range chunkIDs {
		drop[id] = struct{}{}
	}

	kept := e.corpus[:0]
	for _, ent := range e.corpus {
		if _, gone := drop[ent.id]; gone {
			delete(e.byID, ent.id)
			continue
		}
		kept = append(kept, ent)
	}
	e.corpus = kept

	if len(e.corpus) == 0 {
		e.current.Store(nil)
		return
	}
	e.current.Store(fit(e.corpus))
}

// Available reports whether a fitted model exists.
func (e *Engine) Available() bool {
	return e.current.Load() != nil
}

// TermCount returns the vocabulary size of the current model.
func (e *Engine) TermCount() int {
	m := e.current.Load()
	if m == nil {
		return 0
	}
	return len(m.idf)
}

// DocCount returns the number of indexed chunks in the current model.
func (e *Engine) DocCount() int {
	m := e.current.Load()
	if m == nil {
		return 0
	}
	return len(m.ids)
}

// Search vectorizes the query against the fitted model and returns the top-k
// chunks by cosine similarity. Ties are broken by insertion order.
// Returns nil when no model is fitted.
func (e *Engine) Search(query string, k int) []Hit {
	m := e.current.Load()
	if m == nil || k <= 0 {
		return nil
	}

	qvec := m.transform(query)
	if len(qvec) == 0 {
		return nil
	}

	hits := make([]Hit, 0, len(m.ids))
	for i, row := range m.rows {
		score := dotSparse(qvec, row)
		if score <= 0 {
			continue
		}
		hits = append(hits, Hit{ChunkID: m.ids[i], Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// model is an immutable fitted TF-IDF model. Never mutated after fit.
type model struct {
	vocabulary map[string]int
	idf        []float64
	ids        []string
	rows       []map[int]float64 // L2-normalized tf-idf rows, sparse by term index
}

// fit builds a model from the corpus: vocabulary with stable (sorted)
// ordering, smoothed IDF, and a normalized row per chunk.
func fit(corpus []entry) *model {
	df := make(map[string]int)
	tokenized := make([][]string, len(corpus))
	for i, ent := range corpus {
		tokens := Tokenize(ent.content)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	m := &model{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		ids:        make([]string, len(corpus)),
		rows:       make([]map[int]float64, len(corpus)),
	}
	n := float64(len(corpus))
	for i, term := range terms {
		m.vocabulary[term] = i
		// Smoothed IDF so terms present in every document keep a small weight.
		m.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	for i, ent := range corpus {
		m.ids[i] = ent.id
		m.rows[i] = m.vectorize(tokenized[i])
	}
	return m
}

// transform vectorizes a query against the fitted vocabulary.
func (m *model) transform(text string) map[int]float64 {
	return m.vectorize(Tokenize(text))
}

func (m *model) vectorize(tokens []string) map[int]float64 {
	tf := make(map[int]int)
	total := 0
	for _, tok := range tokens {
		if idx, ok := m.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	vec := make(map[int]float64, len(tf))
	var norm float64
	for idx, count := range tf {
		v := float64(count) / float64(total) * m.idf[idx]
		vec[idx] = v
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// dotSparse computes the dot product of two L2-normalized sparse vectors,
// which equals their cosine similarity. Iterates the smaller map.
func dotSparse(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, av := range a {
		if bv, ok := b[idx]; ok {
			dot += av * bv
		}
	}
	return dot
}
