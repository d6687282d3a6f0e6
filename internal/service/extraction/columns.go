package extraction

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// StoryColumnNames are the header names recognised as holding story text
var StoryColumnNames = []string{
	"story",
	"user story",
	"user_story",
	"userstory",
	"requirement",
	"requirements",
	"description",
	"acceptance criteria",
	"feature",
	"scenario",
}

// ColumnStrategy picks a column index from a header and its rows.
// ok is false when the strategy has no opinion.
type ColumnStrategy func(headers []string, rows [][]string) (index int, ok bool)

// columnStrategies run in order; the first strategy that picks a column wins
var columnStrategies = []ColumnStrategy{
	ExactNameMatch,
	PartialNameMatch,
	LongestAverageText,
}

// SelectStoryColumn returns the index of the column holding story text,
// or -1 when there are no headers.
func SelectStoryColumn(headers []string, rows [][]string) int {
	for _, strategy := range columnStrategies {
		if idx, ok := strategy(headers, rows); ok {
			return idx
		}
	}
	return -1
}

// ExactNameMatch picks the first header equal to a recognised name, ignoring case
func ExactNameMatch(headers []string, _ [][]string) (int, bool) {
	for i, h := range headers {
		if slices.Contains(StoryColumnNames, normalizeHeader(h)) {
			return i, true
		}
	}
	return 0, false
}

// PartialNameMatch picks the first header containing a recognised name, ignoring case
func PartialNameMatch(headers []string, _ [][]string) (int, bool) {
	for i, h := range headers {
		lower := normalizeHeader(h)
		for _, name := range StoryColumnNames {
			if strings.Contains(lower, name) {
				return i, true
			}
		}
	}
	return 0, false
}

// LongestAverageText picks the column with the strictly greatest average cell
// length in runes. Ties keep the earliest column; all-empty data picks column 0.
func LongestAverageText(headers []string, rows [][]string) (int, bool) {
	if len(headers) == 0 {
		return 0, false
	}

	best, bestAvg := 0, 0.0
	for col := range headers {
		avg := averageLength(rows, col)
		if avg > bestAvg {
			best, bestAvg = col, avg
		}
	}
	return best, true
}

func averageLength(rows [][]string, col int) float64 {
	if len(rows) == 0 {
		return 0
	}
	total := 0
	for _, row := range rows {
		total += utf8.RuneCountInString(cell(row, col))
	}
	return float64(total) / float64(len(rows))
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
