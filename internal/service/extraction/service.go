package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
	"testforge/internal/metrics"
)

// storyExtractor implements the StoryExtractor interface
type storyExtractor struct {
	registry *ExtractorRegistry
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewStoryExtractor creates an extractor with the standard strategies registered
func NewStoryExtractor(m *metrics.Metrics, logger *slog.Logger) tcSvc.StoryExtractor {
	registry := NewExtractorRegistry()
	registry.Register(NewTextExtractor(), ".txt")
	registry.Register(NewCSVExtractor(), ".csv")
	registry.Register(NewXLSXExtractor(), ".xlsx")
	registry.Register(NewXLSExtractor(), ".xls")

	return NewStoryExtractorWithRegistry(registry, m, logger)
}

// NewStoryExtractorWithRegistry creates an extractor over a custom registry
func NewStoryExtractorWithRegistry(registry *ExtractorRegistry, m *metrics.Metrics, logger *slog.Logger) tcSvc.StoryExtractor {
	return &storyExtractor{
		registry: registry,
		metrics:  m,
		logger:   logger,
	}
}

// Extract routes the file to its extractor by extension
func (s *storyExtractor) Extract(ctx context.Context, filename string, content []byte) (*testcase.ParseResult, error) {
	extractor := s.registry.GetExtractor(filename)
	if extractor == nil {
		return nil, s.unsupported(filename)
	}

	result, err := extractor.Extract(ctx, filename, content)
	if err != nil {
		s.metrics.ObserveExtractionFailure(extractor.Name())
		s.logger.Warn("story extraction failed",
			"file", filename,
			"extractor", extractor.Name(),
			"error", err,
		)
		return nil, err
	}

	s.metrics.ObserveExtraction(extractor.Name(), result.TotalFound)
	s.logger.Info("stories extracted",
		"file", filename,
		"extractor", extractor.Name(),
		"bytes", len(content),
		"total_found", result.TotalFound,
	)
	return result, nil
}

// SupportedExtensions lists the accepted extensions
func (s *storyExtractor) SupportedExtensions() []string {
	return s.registry.SupportedExtensions()
}

func (s *storyExtractor) unsupported(filename string) error {
	ext := Ext(filename)
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Errorf("%w: unsupported file type: %s. Supported: %s",
		domain.ErrValidation, ext, strings.Join(s.registry.SupportedExtensions(), ", "))
}
