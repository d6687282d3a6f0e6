package extraction

import (
	"bytes"
	"context"
	"fmt"

	"github.com/extrame/xls"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
)

// sheetReader loads every row of the first sheet as display text
type sheetReader func(content []byte) ([][]string, error)

// spreadsheetExtractor applies the tabular story extraction to the first sheet of a workbook
type spreadsheetExtractor struct {
	name string
	ext  string
	read sheetReader
}

// NewXLSXExtractor creates the .xlsx extractor backed by excelize
func NewXLSXExtractor() tcSvc.Extractor {
	return &spreadsheetExtractor{name: "xlsx", ext: ".xlsx", read: readXLSX}
}

// NewXLSExtractor creates the legacy .xls extractor
func NewXLSExtractor() tcSvc.Extractor {
	return &spreadsheetExtractor{name: "xls", ext: ".xls", read: readXLS}
}

// CanExtract returns true for the extractor's workbook format
func (e *spreadsheetExtractor) CanExtract(ext string) bool {
	return ext == e.ext
}

// Extract reads the first sheet and selects the story column
func (e *spreadsheetExtractor) Extract(ctx context.Context, filename string, content []byte) (*testcase.ParseResult, error) {
	records, err := e.read(content)
	if err != nil {
		return nil, &domain.ExtractionError{FileName: filename, Reason: err.Error()}
	}
	return NewTable(records).ExtractStories(filename), nil
}

// Name returns the extractor name for logging
func (e *spreadsheetExtractor) Name() string {
	return e.name
}

var errNoSheets = fmt.Errorf("spreadsheet has no sheets")

// readXLSX returns formatted cell text, so numbers and booleans arrive as strings
func readXLSX(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("could not read spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// isZipWorkbook reports whether content is an OOXML workbook regardless of its file name
func isZipWorkbook(content []byte) bool {
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet") || m.Is("application/zip") {
			return true
		}
	}
	return false
}

// readXLS reads BIFF workbooks. Workbooks saved as .xlsx but named .xls are
// handed to the excelize reader. The decoder panics on some malformed input,
// which is reported as an unreadable file.
func readXLS(content []byte) (records [][]string, err error) {
	if isZipWorkbook(content) {
		return readXLSX(content)
	}

	defer func() {
		if r := recover(); r != nil {
			records, err = nil, fmt.Errorf("could not read spreadsheet: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("could not read spreadsheet: %w", err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, errNoSheets
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errNoSheets
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		records = append(records, cells)
	}
	return records, nil
}

// xlsRow returns nil for rows the sheet never defined; the decoder panics on those
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
