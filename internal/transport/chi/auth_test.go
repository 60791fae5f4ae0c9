package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authProbe(t *testing.T, keys []string, path, header string) *httptest.ResponseRecorder {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := BearerAuthMiddleware(keys)(next)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestBearerAuth_DisabledWhenNoKeys(t *testing.T) {
	rec := authProbe(t, nil, "/v1/suggest", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want pass-through", rec.Code)
	}
}

func TestBearerAuth_ValidKey(t *testing.T) {
	rec := authProbe(t, []string{"secret"}, "/v1/suggest", "Bearer secret")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestBearerAuth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic secret"},
		{"unknown key", "Bearer wrong"},
		{"bare token", "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := authProbe(t, []string{"secret"}, "/v1/suggest", tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestBearerAuth_ExemptPaths(t *testing.T) {
	for _, path := range []string{"/healthz", "/metrics"} {
		rec := authProbe(t, []string{"secret"}, path, "")
		if rec.Code != http.StatusNoContent {
			t.Errorf("%s: status = %d, want exempt pass-through", path, rec.Code)
		}
	}
}

func TestBearerAuth_EmptyConfiguredKeyIgnored(t *testing.T) {
	// A blank entry in the key list must not open the API to empty tokens.
	rec := authProbe(t, []string{""}, "/v1/suggest", "Bearer ")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want pass-through when only blank keys configured", rec.Code)
	}
}
