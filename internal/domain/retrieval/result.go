package retrieval

// Method is the relevance definition that produced a result.
type Method string

// Retrieval method constants.
const (
	Embedding  Method = "embedding"
	Keyword    Method = "keyword"
	Hybrid     Method = "hybrid"
	Contextual Method = "contextual"
)

// Result is a single retrieval hit. Transient, per-query: constructed fresh
// for each request and discarded by the caller.
type Result struct {
	chunkID     string
	content     string
	score       float64
	method      Method
	sourceDocID string
	metadata    map[string]string
	distance    float64
}

// New creates a retrieval result. The score is a relevance in [0,1], higher
// is more relevant.
func New(
	chunkID, content string, score float64, method Method,
	sourceDocID string, metadata map[string]string,
) Result {
	return Result{
		chunkID: chunkID, content: content, score: score,
		method: method, sourceDocID: sourceDocID, metadata: metadata,
	}
}

// WithDistance returns a copy carrying the engine-native distance.
// Only meaningful for dense retrieval.
func (r Result) WithDistance(d float64) Result {
	r.distance = d
	return r
}

// WithScore returns a copy with a replaced relevance score.
func (r Result) WithScore(score float64) Result {
	r.score = score
	return r
}

// WithMethod returns a copy with a replaced retrieval method tag.
func (r Result) WithMethod(m Method) Result {
	r.method = m
	return r
}

// ChunkID returns the chunk identifier.
func (r *Result) ChunkID() string { return r.chunkID }

// Content returns the chunk content.
func (r *Result) Content() string { return r.content }

// Score returns the relevance score in [0,1].
func (r *Result) Score() float64 { return r.score }

// RetrievalMethod returns the relevance definition that produced this hit.
func (r *Result) RetrievalMethod() Method { return r.method }

// SourceDocID returns the owning document's identifier.
func (r *Result) SourceDocID() string { return r.sourceDocID }

// Metadata returns the chunk metadata.
func (r *Result) Metadata() map[string]string { return r.metadata }

// Distance returns the engine-native distance (dense retrieval only).
func (r *Result) Distance() float64 { return r.distance }
