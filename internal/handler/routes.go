package handler

import "net/http"

// Handlers bundles every API handler for route registration
type Handlers struct {
	TestCases *TestCaseHandler
	Upload    *UploadHandler
	Generate  *GenerateHandler
	Export    *ExportHandler
	Models    *ModelsHandler
}

// Register mounts the API on mux using Go 1.22 method patterns
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", HealthCheck)

	mux.HandleFunc("POST /api/parse-file", h.Upload.ParseFile)

	mux.HandleFunc("POST /api/generate", h.Generate.Generate)
	mux.HandleFunc("POST /api/generate/batch", h.Generate.GenerateBatch)

	mux.HandleFunc("GET /api/test-cases", h.TestCases.List)
	mux.HandleFunc("POST /api/test-cases", h.TestCases.Save)
	mux.HandleFunc("POST /api/test-cases/bulk-delete", h.TestCases.BulkDelete)
	mux.HandleFunc("GET /api/test-cases/{id}", h.TestCases.Get)
	mux.HandleFunc("PUT /api/test-cases/{id}", h.TestCases.Update)
	mux.HandleFunc("PATCH /api/test-cases/{id}", h.TestCases.Update)
	mux.HandleFunc("DELETE /api/test-cases/{id}", h.TestCases.Delete)

	mux.HandleFunc("GET /api/export", h.Export.Export)

	mux.HandleFunc("GET /api/models", h.Models.ListModels)
}
