package handler

import (
	"log/slog"
	"net/http"

	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
	"testforge/internal/httputil"
)

// GenerateHandler handles test case generation requests
type GenerateHandler struct {
	service tcSvc.GenerationService
	logger  *slog.Logger
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(service tcSvc.GenerationService, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		service: service,
		logger:  logger,
	}
}

// Generate produces draft test cases for one requirement. Nothing is persisted.
// POST /api/generate
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req testcase.GenerateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Generate(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// GenerateBatch produces drafts for several stories, reporting failures per story
// POST /api/generate/batch
func (h *GenerateHandler) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req testcase.BatchGenerateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.GenerateBatch(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
