package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
)

type csvExporter struct{}

// NewCSVExporter creates the CSV exporter
func NewCSVExporter() tcSvc.Exporter {
	return &csvExporter{}
}

func (e *csvExporter) Format() string { return "csv" }

// Export writes a header row and one CRLF-terminated row per case
func (e *csvExporter) Export(cases []testcase.TestCase) (*tcSvc.Export, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i := range cases {
		if err := w.Write(Flatten(&cases[i])); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &tcSvc.Export{
		ContentType: "text/csv; charset=utf-8",
		FileName:    "test-cases.csv",
		Data:        buf.Bytes(),
	}, nil
}
