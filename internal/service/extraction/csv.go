package extraction

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
)

// csvExtractor reads one story per CSV row from the detected story column
type csvExtractor struct{}

// NewCSVExtractor creates the .csv extractor
func NewCSVExtractor() tcSvc.Extractor {
	return &csvExtractor{}
}

// CanExtract returns true for .csv
func (e *csvExtractor) CanExtract(ext string) bool {
	return ext == ".csv"
}

// Extract parses the CSV with its first row as header
func (e *csvExtractor) Extract(ctx context.Context, filename string, content []byte) (*testcase.ParseResult, error) {
	text, err := decodeText(filename, content)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &domain.ExtractionError{
			FileName: filename,
			Reason:   fmt.Sprintf("could not parse CSV: %v", err),
		}
	}

	return NewTable(records).ExtractStories(filename), nil
}

// Name returns the extractor name for logging
func (e *csvExtractor) Name() string {
	return "csv"
}
