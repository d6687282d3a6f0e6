package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
)

// SheetName is the worksheet holding exported test cases
const SheetName = "Test Cases"

const minColumnWidth = 20

type xlsxExporter struct{}

// NewXLSXExporter creates the spreadsheet exporter
func NewXLSXExporter() tcSvc.Exporter {
	return &xlsxExporter{}
}

func (e *xlsxExporter) Format() string { return "xlsx" }

// Export writes a single-sheet workbook with a header row
func (e *xlsxExporter) Export(cases []testcase.TestCase) (*tcSvc.Export, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i := range cases {
		row := Flatten(&cases[i])
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for i, c := range Columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, float64(max(len(c), minColumnWidth))); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return &tcSvc.Export{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		FileName:    "test-cases.xlsx",
		Data:        buf.Bytes(),
	}, nil
}
