package extraction

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testforge/internal/domain"
	"testforge/internal/metrics"
)

func newTestExtractor(t *testing.T) (*storyExtractor, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStoryExtractor(metrics.New(reg), logger).(*storyExtractor), reg
}

func TestStoryExtractor_RoutesByExtension(t *testing.T) {
	s, _ := newTestExtractor(t)

	tests := []struct {
		file string
		want string
	}{
		{"a.txt", "text"},
		{"A.TXT", "text"},
		{"b.csv", "csv"},
		{"c.xlsx", "xlsx"},
		{"d.XLS", "xls"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			extractor := s.registry.GetExtractor(tt.file)
			require.NotNil(t, extractor)
			assert.Equal(t, tt.want, extractor.Name())
		})
	}
}

func TestStoryExtractor_Unsupported(t *testing.T) {
	s, _ := newTestExtractor(t)

	_, err := s.Extract(context.Background(), "notes.pdf", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "unsupported file type: .pdf")
	assert.Contains(t, err.Error(), ".txt, .csv, .xlsx, .xls")

	_, err = s.Extract(context.Background(), "README", []byte("As a user I can read"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStoryExtractor_SupportedExtensions(t *testing.T) {
	s, _ := newTestExtractor(t)
	assert.Equal(t, []string{".txt", ".csv", ".xlsx", ".xls"}, s.SupportedExtensions())
}

func TestStoryExtractor_RecordsMetrics(t *testing.T) {
	s, reg := newTestExtractor(t)

	_, err := s.Extract(context.Background(), "s.txt", []byte("first story here\n\nsecond story here"))
	require.NoError(t, err)

	_, err = s.Extract(context.Background(), "bad.xlsx", []byte("nope"))
	require.Error(t, err)

	expected := `
# HELP testforge_extraction_failures_total Uploaded files that could not be parsed, by format.
# TYPE testforge_extraction_failures_total counter
testforge_extraction_failures_total{format="xlsx"} 1
# HELP testforge_stories_extracted_total Stories extracted from uploaded files by format.
# TYPE testforge_stories_extracted_total counter
testforge_stories_extracted_total{format="text"} 2
`
	err = testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"testforge_extraction_failures_total", "testforge_stories_extracted_total")
	assert.NoError(t, err)
}

func TestExtractorRegistry_FirstMatchWins(t *testing.T) {
	registry := NewExtractorRegistry()
	registry.Register(NewTextExtractor(), "TXT")
	registry.Register(NewCSVExtractor(), ".csv")

	assert.Equal(t, []string{".txt", ".csv"}, registry.SupportedExtensions())
	assert.Nil(t, registry.GetExtractor("file.md"))
	assert.Equal(t, "csv", registry.GetExtractor("dir.v2/file.csv").Name())
}
