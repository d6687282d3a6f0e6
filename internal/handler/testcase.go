package handler

import (
	"log/slog"
	"net/http"

	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
	"testforge/internal/httputil"
)

// TestCaseHandler handles stored test case requests
type TestCaseHandler struct {
	service tcSvc.TestCaseService
	logger  *slog.Logger
}

// NewTestCaseHandler creates a new test case handler
func NewTestCaseHandler(service tcSvc.TestCaseService, logger *slog.Logger) *TestCaseHandler {
	return &TestCaseHandler{
		service: service,
		logger:  logger,
	}
}

type listResponse struct {
	TestCases []testcase.TestCase `json:"testCases"`
	Total     int                 `json:"total"`
}

type saveRequest struct {
	TestCases []testcase.TestCase `json:"testCases"`
}

type saveResponse struct {
	TestCases []testcase.TestCase `json:"testCases"`
	Count     int                 `json:"count"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// List returns stored test cases, optionally filtered
// GET /api/test-cases?status=&tag=&priority=&type=
func (h *TestCaseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := testcase.Filter{
		Status:   testcase.Status(q.Get("status")),
		Priority: testcase.Priority(q.Get("priority")),
		Type:     testcase.TestType(q.Get("type")),
		Tag:      q.Get("tag"),
	}

	cases, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listResponse{TestCases: cases, Total: len(cases)})
}

// Save appends complete test case records
// POST /api/test-cases
func (h *TestCaseHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.service.Save(r.Context(), req.TestCases)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, saveResponse{TestCases: saved, Count: len(saved)})
}

// Get returns one test case
// GET /api/test-cases/{id}
func (h *TestCaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	tc, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tc)
}

// Update applies a partial update
// PUT /api/test-cases/{id}
// PATCH /api/test-cases/{id}
func (h *TestCaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch testcase.Patch
	if err := httputil.ParseJSON(w, r, &patch); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), r.PathValue("id"), &patch)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, updated)
}

// Delete removes one test case
// DELETE /api/test-cases/{id}
func (h *TestCaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// BulkDelete removes many test cases and reports each outcome
// POST /api/test-cases/bulk-delete
func (h *TestCaseHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
