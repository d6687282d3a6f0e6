package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
)

func sampleCases() []testcase.TestCase {
	created := time.Date(2025, 2, 3, 4, 5, 6, 789_000_000, time.UTC)
	return []testcase.TestCase{
		{
			ID:                "0b6a3c1e-5b1d-4c55-9f57-7d0c1c6e0a11",
			Title:             "Login, with \"quotes\"",
			Description:       "desc",
			Preconditions:     "user exists",
			Steps:             []string{"Open page", "Submit form"},
			ExpectedResult:    "Dashboard shown",
			Priority:          testcase.PriorityHigh,
			Type:              testcase.TypeFunctional,
			Status:            testcase.StatusDraft,
			Tags:              []string{"auth", "smoke"},
			SourceRequirement: "Users can log in",
			CreatedAt:         created,
			UpdatedAt:         created.Add(time.Hour),
		},
	}
}

func TestFlatten(t *testing.T) {
	cases := sampleCases()
	row := Flatten(&cases[0])

	require.Len(t, row, len(Columns))
	assert.Equal(t, "1. Open page\n2. Submit form", row[4])
	assert.Equal(t, "auth, smoke", row[9])
	assert.Equal(t, "2025-02-03T04:05:06.789Z", row[11])
	assert.Equal(t, "2025-02-03T05:05:06.789Z", row[12])
}

func TestCSVExporter(t *testing.T) {
	out, err := NewCSVExporter().Export(sampleCases())
	require.NoError(t, err)

	assert.Equal(t, "text/csv; charset=utf-8", out.ContentType)
	assert.Equal(t, "test-cases.csv", out.FileName)
	assert.True(t, bytes.HasPrefix(out.Data, []byte("ID,Title,Description,Preconditions,Steps,Expected Result,")))
	assert.Contains(t, string(out.Data), "\r\n")

	records, err := csv.NewReader(bytes.NewReader(out.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, `Login, with "quotes"`, records[1][1])
	assert.Equal(t, "1. Open page\n2. Submit form", records[1][4])
}

func TestXLSXExporter(t *testing.T) {
	out, err := NewXLSXExporter().Export(sampleCases())
	require.NoError(t, err)
	assert.Equal(t, "test-cases.xlsx", out.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "Dashboard shown", rows[1][5])

	width, err := f.GetColWidth(SheetName, "A")
	require.NoError(t, err)
	assert.Equal(t, 20.0, width)
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter().Export(sampleCases())
	require.NoError(t, err)
	assert.Equal(t, "application/json; charset=utf-8", out.ContentType)
	assert.Contains(t, string(out.Data), "\n  {\n    \"id\"")

	var decoded []testcase.TestCase
	require.NoError(t, json.Unmarshal(out.Data, &decoded))
	assert.Equal(t, sampleCases(), decoded)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"csv", "xlsx", "json"}, r.Formats())

	e, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, "json", e.Format())

	e, err = r.Get("xlsx")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", e.Format())

	_, err = r.Get("pdf")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Unsupported format: pdf. Use csv, xlsx, or json.", err.Error())
}
