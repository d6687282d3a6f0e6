package export

import (
	"encoding/json"
	"fmt"

	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
)

type jsonExporter struct{}

// NewJSONExporter creates the JSON exporter
func NewJSONExporter() tcSvc.Exporter {
	return &jsonExporter{}
}

func (e *jsonExporter) Format() string { return "json" }

// Export writes the full records as a pretty-printed array
func (e *jsonExporter) Export(cases []testcase.TestCase) (*tcSvc.Export, error) {
	if cases == nil {
		cases = []testcase.TestCase{}
	}
	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return &tcSvc.Export{
		ContentType: "application/json; charset=utf-8",
		FileName:    "test-cases.json",
		Data:        data,
	}, nil
}
