package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testforge/internal/auth"
	"testforge/internal/domain"
	"testforge/internal/httputil"
	"testforge/internal/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}, nil
}

func (fakeVerifier) Close() error { return nil }

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRecovery_ReraisesAbort(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	})
}

func TestAuth(t *testing.T) {
	var gotSubject string
	h := Auth(fakeVerifier{}, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = httputil.GetSubject(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"valid token", http.MethodGet, "/api/test-cases", "Bearer good", http.StatusNoContent},
		{"lowercase scheme", http.MethodGet, "/api/test-cases", "bearer good", http.StatusNoContent},
		{"missing header", http.MethodGet, "/api/test-cases", "", http.StatusUnauthorized},
		{"wrong scheme", http.MethodGet, "/api/test-cases", "Basic good", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/test-cases", "Bearer bad", http.StatusUnauthorized},
		{"health is public", http.MethodGet, "/health", "", http.StatusNoContent},
		{"preflight passes", http.MethodOptions, "/api/test-cases", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/test-cases", nil)
	req.Header.Set("Authorization", "Bearer good")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "user-1", gotSubject)
}

func TestMetrics_LabelsByPattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/test-cases/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := Metrics(m, mux)(mux)

	for _, id := range []string{"a", "b", "c"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/test-cases/"+id, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	expected := `
# HELP testforge_http_requests_total HTTP requests by route pattern and status code.
# TYPE testforge_http_requests_total counter
testforge_http_requests_total{method="GET",route="GET /api/test-cases/{id}",status="404"} 3
testforge_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "testforge_http_requests_total")
	require.NoError(t, err)
}
