package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	"testforge/internal/domain"
	tcSvc "testforge/internal/domain/services/testcase"
	"testforge/internal/httputil"
)

// multipartOverhead is the allowance for form boundaries and headers on top of the file itself
const multipartOverhead = 1 << 20

// noStoriesReason is returned when a file parses but holds no usable story
const noStoriesReason = "No user stories found in the file. Ensure the file contains text with at least 10 characters per story."

// UploadHandler extracts candidate stories from uploaded files
type UploadHandler struct {
	extractor tcSvc.StoryExtractor
	maxBytes  int64
	logger    *slog.Logger
}

// NewUploadHandler creates a new upload handler accepting files up to maxBytes
func NewUploadHandler(extractor tcSvc.StoryExtractor, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		extractor: extractor,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// ParseFile reads the multipart "file" field and returns the extracted stories
// POST /api/parse-file
func (h *UploadHandler) ParseFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		case errors.Is(err, http.ErrMissingFile):
			httputil.RespondError(w, http.StatusBadRequest, "No file provided.")
		default:
			httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		}
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	if int64(len(content)) > h.maxBytes {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return
	}

	h.logger.Debug("file uploaded",
		"file", header.Filename,
		"bytes", len(content),
		"detected_type", mimetype.Detect(content).String(),
	)

	result, err := h.extractor.Extract(r.Context(), header.Filename, content)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if result.TotalFound == 0 {
		handleError(w, h.logger, &domain.ExtractionError{FileName: header.Filename, Reason: noStoriesReason})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

func (h *UploadHandler) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum size is %s.", formatBytes(h.maxBytes))
}

// formatBytes renders whole mebibytes as "5 MB" and anything else in bytes
func formatBytes(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}
