package export

import (
	"fmt"
	"strings"
	"time"

	"testforge/internal/domain/models/testcase"
)

// Columns is the header row shared by the tabular formats
var Columns = []string{
	"ID",
	"Title",
	"Description",
	"Preconditions",
	"Steps",
	"Expected Result",
	"Priority",
	"Type",
	"Status",
	"Tags",
	"Source Requirement",
	"Created At",
	"Updated At",
}

// timestampLayout renders times like JavaScript's toISOString
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Flatten renders one test case as a row aligned with Columns.
// Steps become a numbered list, one per line.
func Flatten(tc *testcase.TestCase) []string {
	steps := make([]string, len(tc.Steps))
	for i, s := range tc.Steps {
		steps[i] = fmt.Sprintf("%d. %s", i+1, s)
	}

	return []string{
		tc.ID,
		tc.Title,
		tc.Description,
		tc.Preconditions,
		strings.Join(steps, "\n"),
		tc.ExpectedResult,
		string(tc.Priority),
		string(tc.Type),
		string(tc.Status),
		strings.Join(tc.Tags, ", "),
		tc.SourceRequirement,
		formatTime(tc.CreatedAt),
		formatTime(tc.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
