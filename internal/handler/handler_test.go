package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
	"testforge/internal/repository/filestore"
	"testforge/internal/service/export"
	"testforge/internal/service/extraction"
	tcService "testforge/internal/service/testcase"
)

type fakeGenerator struct {
	err error
}

func (f *fakeGenerator) Generate(ctx context.Context, req *testcase.GenerateRequest) (*testcase.GenerateResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &testcase.GenerateResponse{
		TestCases: []testcase.TestCase{{ID: uuid.NewString(), Title: "generated", Status: testcase.StatusDraft}},
		Metadata:  testcase.GenerationMetadata{Model: "gpt-4o", Provider: "openai"},
	}, nil
}

func (f *fakeGenerator) GenerateBatch(ctx context.Context, req *testcase.BatchGenerateRequest) (*testcase.BatchGenerateResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &testcase.BatchGenerateResponse{
		Results:   []testcase.StoryResult{{Index: 0, Story: req.Stories[0], Error: "rate limited"}},
		Failed:    1,
		Succeeded: 0,
	}, nil
}

type fakeCatalog struct{}

func (fakeCatalog) ListModels(ctx context.Context) []testcase.ProviderModels {
	return []testcase.ProviderModels{
		{Provider: "openai", Available: true, Models: []testcase.ModelInfo{{ID: "gpt-4o", Name: "GPT-4o"}}},
		{Provider: "ollama", Available: false, Models: []testcase.ModelInfo{}, Error: "Could not connect to Ollama."},
	}
}

type testServer struct {
	mux       *http.ServeMux
	generator *fakeGenerator
}

func newTestServer(t *testing.T, maxUpload int64) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := filestore.NewTestCaseStore(t.TempDir(), logger)
	svc := tcService.NewService(store, logger)
	gen := &fakeGenerator{}

	h := &Handlers{
		TestCases: NewTestCaseHandler(svc, logger),
		Upload:    NewUploadHandler(extraction.NewStoryExtractor(nil, logger), maxUpload, logger),
		Generate:  NewGenerateHandler(gen, logger),
		Export:    NewExportHandler(svc, export.NewRegistry(), logger),
		Models:    NewModelsHandler(fakeCatalog{}, logger),
	}
	mux := http.NewServeMux()
	h.Register(mux)
	return &testServer{mux: mux, generator: gen}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("other", "x"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/parse-file", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func record(title string, mods ...func(*testcase.TestCase)) testcase.TestCase {
	now := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	tc := testcase.TestCase{
		ID:             uuid.NewString(),
		Title:          title,
		Steps:          []string{"open the app"},
		ExpectedResult: "it opens",
		Priority:       testcase.PriorityLow,
		Type:           testcase.TypeUsability,
		Status:         testcase.StatusDraft,
		Tags:           []string{"ui"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, m := range mods {
		m(&tc)
	}
	return tc
}

func TestTestCaseLifecycle(t *testing.T) {
	s := newTestServer(t, 5<<20)

	a := record("first")
	b := record("second", func(tc *testcase.TestCase) { tc.Status = testcase.StatusApproved })

	rec := s.do(t, http.MethodPost, "/api/test-cases", map[string]any{"testCases": []testcase.TestCase{a, b}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[saveResponse](t, rec)
	assert.Equal(t, 2, saved.Count)

	rec = s.do(t, http.MethodGet, "/api/test-cases?status=Approved", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listResponse](t, rec)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, b.ID, list.TestCases[0].ID)

	rec = s.do(t, http.MethodPatch, "/api/test-cases/"+a.ID, map[string]any{"status": "Review"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[testcase.TestCase](t, rec)
	assert.Equal(t, testcase.StatusReview, updated.Status)
	assert.Equal(t, "first", updated.Title)

	rec = s.do(t, http.MethodPut, "/api/test-cases/"+a.ID, map[string]any{"id": "ignored"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "a patch with no mutable field is rejected")

	rec = s.do(t, http.MethodGet, "/api/test-cases/"+a.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/test-cases/"+a.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/test-cases/"+a.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/test-cases/"+a.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestSave_InvalidReturnsDetails(t *testing.T) {
	s := newTestServer(t, 5<<20)

	bad := record("", func(tc *testcase.TestCase) { tc.Priority = "Urgent" })
	rec := s.do(t, http.MethodPost, "/api/test-cases", map[string]any{"testCases": []testcase.TestCase{bad}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode[map[string]any](t, rec)
	details, ok := body["details"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	assert.Contains(t, details, "testCases.0.title")
	assert.Contains(t, details, "testCases.0.priority")

	req := httptest.NewRequest(http.MethodPost, "/api/test-cases", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkDelete(t *testing.T) {
	s := newTestServer(t, 5<<20)

	a, b := record("a"), record("b")
	rec := s.do(t, http.MethodPost, "/api/test-cases", map[string]any{"testCases": []testcase.TestCase{a, b}})
	require.Equal(t, http.StatusCreated, rec.Code)

	missing := uuid.NewString()
	rec = s.do(t, http.MethodPost, "/api/test-cases/bulk-delete", map[string]any{"ids": []string{a.ID, missing}})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[testcase.BulkDeleteResult](t, rec)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.NotFound)
	assert.Equal(t, testcase.OutcomeNotFound, result.Results[1].Outcome)

	rec = s.do(t, http.MethodPost, "/api/test-cases/bulk-delete", map[string]any{"ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseFile(t *testing.T) {
	s := newTestServer(t, 5<<20)

	t.Run("text file", func(t *testing.T) {
		rec := s.upload(t, "stories.txt", []byte("As a user I can log in\n\nAs a user I can log out"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		result := decode[testcase.ParseResult](t, rec)
		assert.Equal(t, "stories.txt", result.FileName)
		assert.Equal(t, 2, result.TotalFound)
		assert.Equal(t, "stories.txt (block 2)", result.Stories[1].Source)
	})

	t.Run("csv file", func(t *testing.T) {
		rec := s.upload(t, "backlog.csv", []byte("Name,Requirement\nLogin,As a user I can log in with SSO\n"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		result := decode[testcase.ParseResult](t, rec)
		assert.Equal(t, "As a user I can log in with SSO", result.Stories[0].Content)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		rec := s.upload(t, "notes.pdf", []byte("%PDF-1.4"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unsupported file type: .pdf")
	})

	t.Run("no stories", func(t *testing.T) {
		rec := s.upload(t, "short.txt", []byte("tiny\n\nsmall"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, noStoriesReason, body["detail"])
		assert.Equal(t, "short.txt", body["fileName"])
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		rec := s.upload(t, "broken.xlsx", []byte("not a zip"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		rec := s.upload(t, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "No file provided.")
	})
}

func TestParseFile_TooLarge(t *testing.T) {
	s := newTestServer(t, 16)

	rec := s.upload(t, "big.txt", bytes.Repeat([]byte("a"), 64))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "File too large")
}

func TestGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, http.StatusOK},
		{"validation", &domain.FieldError{Message: "bad", Fields: map[string]string{"requirements": "too short"}}, http.StatusBadRequest},
		{"not configured", fmt.Errorf("%w: OpenAI API key is not configured", domain.ErrNotConfigured), http.StatusInternalServerError},
		{"upstream", fmt.Errorf("%w: openai: rate limited", domain.ErrUpstream), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, 5<<20)
			s.generator.err = tt.err

			rec := s.do(t, http.MethodPost, "/api/generate", map[string]any{"requirements": "Users can log in"})
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestGenerateBatch(t *testing.T) {
	s := newTestServer(t, 5<<20)

	rec := s.do(t, http.MethodPost, "/api/generate/batch", map[string]any{"stories": []string{"story one is long"}})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[testcase.BatchGenerateResponse](t, rec)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, "rate limited", resp.Results[0].Error)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, 5<<20)

	rec := s.do(t, http.MethodGet, "/api/export?format=csv", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "empty store has nothing to export")

	a, b := record("a"), record("b")
	rec = s.do(t, http.MethodPost, "/api/test-cases", map[string]any{"testCases": []testcase.TestCase{a, b}})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/export?format=csv&ids="+b.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=test-cases.csv", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), b.ID)
	assert.NotContains(t, rec.Body.String(), a.ID)

	rec = s.do(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var exported []testcase.TestCase
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))
	assert.Len(t, exported, 2)

	rec = s.do(t, http.MethodGet, "/api/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=test-cases.xlsx", rec.Header().Get("Content-Disposition"))

	rec = s.do(t, http.MethodGet, "/api/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/export?ids="+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No test cases found for the provided IDs")
}

func TestListModels(t *testing.T) {
	s := newTestServer(t, 5<<20)

	rec := s.do(t, http.MethodGet, "/api/models", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[modelsResponse](t, rec)
	require.Len(t, all.Providers, 2)

	rec = s.do(t, http.MethodGet, "/api/models?provider=ollama", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ollama := decode[testcase.ProviderModels](t, rec)
	assert.False(t, ollama.Available)
	assert.NotEmpty(t, ollama.Error)

	rec = s.do(t, http.MethodGet, "/api/models?provider=bard", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, 5<<20)
	rec := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
