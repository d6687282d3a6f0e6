package export

import (
	"fmt"
	"strings"

	"testforge/internal/domain"
	tcSvc "testforge/internal/domain/services/testcase"
)

// DefaultFormat is used when the caller names no format
const DefaultFormat = "json"

// Registry looks exporters up by format name
type Registry struct {
	exporters []tcSvc.Exporter
}

// NewRegistry creates a registry with the csv, xlsx and json exporters
func NewRegistry() *Registry {
	return NewRegistryWith(NewCSVExporter(), NewXLSXExporter(), NewJSONExporter())
}

// NewRegistryWith creates a registry over the given exporters
func NewRegistryWith(exporters ...tcSvc.Exporter) *Registry {
	return &Registry{exporters: exporters}
}

// Get returns the exporter for format, or a validation error naming the known formats
func (r *Registry) Get(format string) (tcSvc.Exporter, error) {
	if format == "" {
		format = DefaultFormat
	}
	for _, e := range r.exporters {
		if e.Format() == format {
			return e, nil
		}
	}
	return nil, &domain.FieldError{
		Message: fmt.Sprintf("Unsupported format: %s. Use %s.", format, r.formatList()),
		Fields:  map[string]string{"format": "unsupported"},
	}
}

// Formats lists the registered format names
func (r *Registry) Formats() []string {
	out := make([]string, len(r.exporters))
	for i, e := range r.exporters {
		out[i] = e.Format()
	}
	return out
}

func (r *Registry) formatList() string {
	names := r.Formats()
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
