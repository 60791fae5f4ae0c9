package chi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/chunker"
	"github.com/kailas-cloud/redraft/internal/index"
	healthuc "github.com/kailas-cloud/redraft/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/redraft/internal/usecase/ingest"
	retrievaluc "github.com/kailas-cloud/redraft/internal/usecase/retrieval"
	suggestuc "github.com/kailas-cloud/redraft/internal/usecase/suggest"
)

// newTestServer wires a memory-only keyword pipeline behind the router, the
// same shape main builds without Redis or providers.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	chunk := chunker.New(chunker.Config{
		Method: "fixed", ChunkSize: 500, TargetSize: 600,
		SimilarityThreshold: 0.6, MinFactor: 0.5, MaxFactor: 1.5,
	}, nil, nil, logger)
	dual := index.NewDualStore(nil, logger)
	ingestSvc := ingestuc.New(chunk, dual, nil, logger)

	retrievalSvc := retrievaluc.New(dual, retrievaluc.Config{
		WeightDense: 0.7, WeightSparse: 0.3, PoolMultiplier: 2,
	}, logger)

	rules := suggestuc.NewRules()
	validator := suggestuc.NewValidator(15, rules)
	suggestSvc := suggestuc.New([]suggestuc.Strategy{
		suggestuc.NewDocumentSearch(retrievalSvc, 0.75, 0.5),
		suggestuc.NewExtendedSearch(retrievalSvc, 0.4),
		suggestuc.NewGenerative(retrievalSvc, nil, validator, 5, logger),
		suggestuc.NewRuleFallback(rules),
	}, rules, logger)

	healthSvc := healthuc.New(nil, nil, dual)

	return NewServer(ingestSvc, retrievalSvc, suggestSvc, healthSvc, nil, logger).Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestAPI_IngestSearchSuggestLifecycle(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/v1/documents", map[string]any{
		"id":          "style-guide",
		"content":     "Write in active voice. Use simple verbs and keep sentences short.",
		"source_type": "style_guide",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ingest status = %d, body %s", rec.Code, rec.Body)
	}
	ingested := decode[ingestResponse](t, rec)
	if ingested.ChunkCount == 0 || !ingested.SparseOK {
		t.Errorf("ingest response = %+v", ingested)
	}
	if ingested.DenseOK {
		t.Error("keyword-only server must not report dense indexing")
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/search", map[string]any{
		"query": "active voice",
		"top_k": 3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d, body %s", rec.Code, rec.Body)
	}
	search := decode[searchResponse](t, rec)
	if search.Total == 0 {
		t.Fatal("expected search hits")
	}
	if search.Items[0].Method != "hybrid" {
		t.Errorf("method = %s, want hybrid default", search.Items[0].Method)
	}

	rec = doJSON(t, h, http.MethodPost, "/v1/suggest", map[string]any{
		"issue":    "wordiness",
		"sentence": "We utilize Docker in order to deploy.",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("suggest status = %d, body %s", rec.Code, rec.Body)
	}
	suggest := decode[suggestResponse](t, rec)
	if suggest.Suggestion == "" || suggest.Confidence == "" || suggest.Method == "" {
		t.Errorf("suggest response = %+v", suggest)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/index/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	stats := decode[statsResponse](t, rec)
	if stats.ChunkCount != ingested.ChunkCount || !stats.SparseAvailable {
		t.Errorf("stats = %+v", stats)
	}

	rec = doJSON(t, h, http.MethodDelete, "/v1/documents/style-guide", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d, body %s", rec.Code, rec.Body)
	}
	removed := decode[removeResponse](t, rec)
	if removed.ChunksRemoved != ingested.ChunkCount {
		t.Errorf("removed %d chunks, want %d", removed.ChunksRemoved, ingested.ChunkCount)
	}
}

func TestAPI_ErrorMapping(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "remove unknown document",
			method:     http.MethodDelete,
			path:       "/v1/documents/ghost",
			wantStatus: http.StatusNotFound,
			wantCode:   codeDocumentNotFound,
		},
		{
			name:       "ingest without content",
			method:     http.MethodPost,
			path:       "/v1/documents",
			body:       map[string]any{"id": "x"},
			wantStatus: http.StatusBadRequest,
			wantCode:   codeValidationFailed,
		},
		{
			name:       "search without query",
			method:     http.MethodPost,
			path:       "/v1/search",
			body:       map[string]any{"top_k": 3},
			wantStatus: http.StatusBadRequest,
			wantCode:   codeValidationFailed,
		},
		{
			name:       "search with unknown mode",
			method:     http.MethodPost,
			path:       "/v1/search",
			body:       map[string]any{"query": "q", "mode": "fuzzy"},
			wantStatus: http.StatusBadRequest,
			wantCode:   codeValidationFailed,
		},
		{
			name:       "suggest without sentence",
			method:     http.MethodPost,
			path:       "/v1/suggest",
			body:       map[string]any{"issue": "passive voice"},
			wantStatus: http.StatusBadRequest,
			wantCode:   codeValidationFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body)
			}
			resp := decode[errorResponse](t, rec)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestAPI_HealthzMemoryOnly(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, body %s", rec.Code, rec.Body)
	}
	health := decode[healthResponse](t, rec)
	if health.Status != "ok" {
		t.Errorf("status = %s", health.Status)
	}
	if health.Checks["database"] != "disabled" || health.Checks["embedding"] != "disabled" {
		t.Errorf("checks = %v, want disabled external components", health.Checks)
	}
}
