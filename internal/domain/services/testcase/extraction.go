package testcase

import (
	"context"

	"testforge/internal/domain/models/testcase"
)

// StoryExtractor turns one uploaded file into candidate user stories.
// Results are all-or-nothing: an error is never returned alongside stories.
type StoryExtractor interface {
	Extract(ctx context.Context, filename string, content []byte) (*testcase.ParseResult, error)

	// SupportedExtensions lists accepted extensions, lowercase with leading dot
	SupportedExtensions() []string
}

// Extractor is the strategy interface for one family of file formats
type Extractor interface {
	// CanExtract returns true if this extractor handles the lowercase extension
	CanExtract(ext string) bool

	// Extract parses content into stories attributed to filename
	Extract(ctx context.Context, filename string, content []byte) (*testcase.ParseResult, error)

	// Name returns the extractor name for logging
	Name() string
}
