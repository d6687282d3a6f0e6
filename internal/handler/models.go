package handler

import (
	"log/slog"
	"net/http"

	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
	"testforge/internal/httputil"
)

// ModelsHandler lists selectable models
type ModelsHandler struct {
	catalog tcSvc.ModelCatalog
	logger  *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(catalog tcSvc.ModelCatalog, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		catalog: catalog,
		logger:  logger,
	}
}

type modelsResponse struct {
	Providers []testcase.ProviderModels `json:"providers"`
}

// ListModels returns every provider's models. With ?provider=name only that
// provider's entry is returned. Unreachable providers are reported, never a 5xx.
// GET /api/models
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	providers := h.catalog.ListModels(r.Context())

	if name := r.URL.Query().Get("provider"); name != "" {
		for _, p := range providers {
			if p.Provider == name {
				httputil.RespondJSON(w, http.StatusOK, p)
				return
			}
		}
		httputil.RespondError(w, http.StatusBadRequest, "unknown provider: "+name)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, modelsResponse{Providers: providers})
}
