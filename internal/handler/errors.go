package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"testforge/internal/domain"
	"testforge/internal/httputil"
)

// handleError converts domain errors to problem responses
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var fieldErr *domain.FieldError
	var extractionErr *domain.ExtractionError

	switch {
	case errors.As(err, &fieldErr):
		extras := map[string]interface{}{}
		if len(fieldErr.Fields) > 0 {
			extras["details"] = fieldErr.Fields
		}
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, fieldErr.Error(), extras)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &extractionErr):
		httputil.RespondErrorWithExtras(w, http.StatusUnprocessableEntity, extractionErr.Reason,
			map[string]interface{}{"fileName": extractionErr.FileName})
	case errors.Is(err, domain.ErrUpstream):
		logger.Warn("upstream failure", "error", err)
		httputil.RespondError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrNotConfigured):
		logger.Error("missing configuration", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful can be written
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
