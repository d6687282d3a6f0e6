package extraction

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"testforge/internal/domain/models/testcase"
)

// Table is tabular data with a header row, shared by the CSV and spreadsheet extractors
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable treats the first non-blank record as the header and keeps the
// remaining non-blank records as rows.
func NewTable(records [][]string) *Table {
	t := &Table{}
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		if t.Headers == nil {
			t.Headers = rec
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

// ExtractStories picks the story column and emits one story per row.
// Row numbers in Source are offset by two for 1-based counting plus the header.
func (t *Table) ExtractStories(filename string) *testcase.ParseResult {
	if len(t.Rows) == 0 {
		return testcase.NewParseResult(filename, nil)
	}

	col := SelectStoryColumn(t.Headers, t.Rows)
	if col < 0 {
		return testcase.NewParseResult(filename, nil)
	}

	stories := make([]testcase.ParsedStory, 0, len(t.Rows))
	for i, row := range t.Rows {
		content := strings.TrimSpace(cell(row, col))
		if utf8.RuneCountInString(content) < testcase.MinStoryLength {
			continue
		}
		stories = append(stories, testcase.ParsedStory{
			ID:      i + 1,
			Content: content,
			Source:  fmt.Sprintf("%s (row %d)", filename, i+2),
		})
	}
	return testcase.NewParseResult(filename, stories)
}

// cell returns row[col] or "" when the row is short
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
