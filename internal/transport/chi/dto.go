package chi

// Wire DTOs for the REST API. Kept flat and explicit so the JSON contract is
// visible in one place.

type ingestRequest struct {
	ID         string            `json:"id"`
	Content    string            `json:"content"`
	FileName   string            `json:"file_name,omitempty"`
	SourceType string            `json:"source_type,omitempty"`
	Title      string            `json:"title,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type ingestResponse struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
	Method     string `json:"method"`
	DenseOK    bool   `json:"dense_ok"`
	SparseOK   bool   `json:"sparse_ok"`
}

type removeResponse struct {
	DocumentID    string `json:"document_id"`
	ChunksRemoved int    `json:"chunks_removed"`
}

type suggestRequest struct {
	Issue           string `json:"issue"`
	Sentence        string `json:"sentence"`
	DocumentContext string `json:"document_context,omitempty"`
}

type suggestResponse struct {
	Suggestion string   `json:"suggestion"`
	Confidence string   `json:"confidence"`
	Method     string   `json:"method"`
	Sources    []string `json:"sources,omitempty"`
}

type searchRequest struct {
	Query      string `json:"query"`
	TopK       int    `json:"top_k,omitempty"`
	Mode       string `json:"mode,omitempty"` // hybrid (default), dense, sparse, contextual
	SourceType string `json:"source_type,omitempty"`
	Context    string `json:"context,omitempty"`
}

type searchResultItem struct {
	ChunkID     string            `json:"chunk_id"`
	Content     string            `json:"content"`
	Score       float64           `json:"score"`
	Method      string            `json:"method"`
	SourceDocID string            `json:"source_doc_id"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

type statsResponse struct {
	ChunkCount      int  `json:"chunk_count"`
	VectorCount     int  `json:"vector_count"`
	TermCount       int  `json:"term_count"`
	DenseAvailable  bool `json:"dense_available"`
	SparseAvailable bool `json:"sparse_available"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest           = "bad_request"
	codeValidationFailed     = "validation_failed"
	codeDocumentNotFound     = "document_not_found"
	codeNotFound             = "not_found"
	codeEmbeddingProviderErr = "embedding_provider_error"
	codeRewriteProviderErr   = "rewrite_provider_error"
	codeEngineUnavailable    = "engine_unavailable"
	codeInternalError        = "internal_error"
	codeUnauthorized         = "unauthorized"
)
