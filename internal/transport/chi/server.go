// Package chi wires the use cases into a REST API on the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/domain"
	domret "github.com/kailas-cloud/redraft/internal/domain/retrieval"
	"github.com/kailas-cloud/redraft/internal/domain/suggestion"
	"github.com/kailas-cloud/redraft/internal/metrics"
	healthuc "github.com/kailas-cloud/redraft/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/redraft/internal/usecase/ingest"
	retrievaluc "github.com/kailas-cloud/redraft/internal/usecase/retrieval"
	suggestuc "github.com/kailas-cloud/redraft/internal/usecase/suggest"
)

const defaultSearchK = 5

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API surface over the ingestion, retrieval, and
// suggestion use cases.
type Server struct {
	ingest        *ingestuc.Service
	retrieval     *retrievaluc.Service
	suggest       *suggestuc.Service
	health        *healthuc.Service
	apiKeys       []string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	retrieval *retrievaluc.Service,
	suggest *suggestuc.Service,
	health *healthuc.Service,
	apiKeys []string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:    ingest,
		retrieval: retrieval,
		suggest:   suggest,
		health:    health,
		apiKeys:   apiKeys,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderErr),
		sentinelHandler(domain.ErrRewriteProviderError, http.StatusBadGateway, codeRewriteProviderErr),
		sentinelHandler(domain.ErrEngineUnavailable, http.StatusServiceUnavailable, codeEngineUnavailable),
	}
	return s
}

// Router builds the chi router with the full middleware chain.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(s.logger))
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(s.apiKeys))

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/documents", s.handleIngest)
		r.Delete("/documents/{id}", s.handleRemove)
		r.Post("/search", s.handleSearch)
		r.Post("/suggest", s.handleSuggest)
		r.Get("/index/stats", s.handleStats)
	})

	return r
}

// handleIngest handles POST /v1/documents.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	doc := domain.Document{
		ID:         req.ID,
		Content:    req.Content,
		FileName:   req.FileName,
		SourceType: req.SourceType,
		Title:      req.Title,
		Metadata:   req.Metadata,
	}

	res, err := s.ingest.Ingest(r.Context(), doc)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse{
		DocumentID: res.DocumentID,
		ChunkCount: res.ChunkCount,
		Method:     res.Method,
		DenseOK:    res.DenseOK,
		SparseOK:   res.SparseOK,
	})
}

// handleRemove handles DELETE /v1/documents/{id}.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	removed, err := s.ingest.Remove(r.Context(), docID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, removeResponse{
		DocumentID:    docID,
		ChunksRemoved: removed,
	})
}

// handleSearch handles POST /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	k := req.TopK
	if k <= 0 {
		k = defaultSearchK
	}
	filter := domret.Filter{SourceType: req.SourceType}

	var results []domret.Result
	switch req.Mode {
	case "", "hybrid":
		results = s.retrieval.HybridDefault(r.Context(), req.Query, k, filter)
	case "dense":
		results = s.retrieval.Dense(r.Context(), req.Query, k, filter)
	case "sparse":
		results = s.retrieval.Sparse(req.Query, k, filter)
	case "contextual":
		results = s.retrieval.Contextual(r.Context(), req.Query, req.Context, k)
	default:
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			"mode must be one of hybrid, dense, sparse, contextual")
		return
	}

	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = searchResultItem{
			ChunkID:     results[i].ChunkID(),
			Content:     results[i].Content(),
			Score:       results[i].Score(),
			Method:      string(results[i].RetrievalMethod()),
			SourceDocID: results[i].SourceDocID(),
			Metadata:    results[i].Metadata(),
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{Items: items, Total: len(items)})
}

// handleSuggest handles POST /v1/suggest.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Issue) == "" || strings.TrimSpace(req.Sentence) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "issue and sentence are required")
		return
	}

	attempt := s.suggest.Suggest(r.Context(), suggestion.Request{
		Issue:           req.Issue,
		Sentence:        req.Sentence,
		DocumentContext: req.DocumentContext,
	})

	writeJSON(w, http.StatusOK, suggestResponse{
		Suggestion: attempt.Suggestion,
		Confidence: string(attempt.Confidence),
		Method:     attempt.Method,
		Sources:    attempt.Sources,
	})
}

// handleStats handles GET /v1/index/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.ingest.Stats()
	writeJSON(w, http.StatusOK, statsResponse{
		ChunkCount:      stats.ChunkCount,
		VectorCount:     stats.VectorCount,
		TermCount:       stats.TermCount,
		DenseAvailable:  stats.DenseAvailable,
		SparseAvailable: stats.SparseAvailable,
	})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrDocumentNotFound,
		domain.ErrNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrRewriteProviderError,
		domain.ErrEngineUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
