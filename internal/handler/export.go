package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"testforge/internal/domain"
	tcSvc "testforge/internal/domain/services/testcase"
	"testforge/internal/httputil"
	"testforge/internal/service/export"
)

// ExportHandler renders stored test cases as downloads
type ExportHandler struct {
	service   tcSvc.TestCaseService
	exporters *export.Registry
	logger    *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(service tcSvc.TestCaseService, exporters *export.Registry, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		service:   service,
		exporters: exporters,
		logger:    logger,
	}
}

// Export downloads all or selected test cases
// GET /api/export?format=csv|xlsx|json&ids=a,b
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	exporter, err := h.exporters.Get(q.Get("format"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	ids := splitIDs(q.Get("ids"))
	cases, err := h.service.GetMany(r.Context(), ids)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if len(cases) == 0 {
		msg := "No test cases available to export"
		if len(ids) > 0 {
			msg = "No test cases found for the provided IDs"
		}
		handleError(w, h.logger, fmt.Errorf("%s: %w", msg, domain.ErrNotFound))
		return
	}

	out, err := exporter.Export(cases)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Info("test cases exported", "format", exporter.Format(), "count", len(cases))
	httputil.RespondAttachment(w, out.ContentType, out.FileName, out.Data)
}

// splitIDs parses a comma separated id list, dropping blanks
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
