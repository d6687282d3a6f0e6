package testcase

import "testforge/internal/domain/models/testcase"

// Export is a rendered download
type Export struct {
	ContentType string
	FileName    string
	Data        []byte
}

// Exporter renders test cases in one format
type Exporter interface {
	Export(cases []testcase.TestCase) (*Export, error)

	// Format returns the query value selecting this exporter ("csv", "xlsx", "json")
	Format() string
}
