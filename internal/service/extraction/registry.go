package extraction

import (
	"path/filepath"
	"strings"
	"sync"

	tcSvc "testforge/internal/domain/services/testcase"
)

// ExtractorRegistry routes files to extractor strategies by extension.
// Extractors are checked in registration order and the first match wins.
//
// Thread-safe for concurrent access during request handling.
type ExtractorRegistry struct {
	mu         sync.RWMutex
	extractors []tcSvc.Extractor
	extensions []string
}

// NewExtractorRegistry creates an empty registry
func NewExtractorRegistry() *ExtractorRegistry {
	return &ExtractorRegistry{}
}

// Register adds an extractor for the listed extensions.
// Extensions are normalized to lowercase with a leading dot.
func (r *ExtractorRegistry) Register(extractor tcSvc.Extractor, extensions ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.extractors = append(r.extractors, extractor)
	for _, ext := range extensions {
		r.extensions = append(r.extensions, normalizeExt(ext))
	}
}

// GetExtractor returns the first extractor that handles filename, or nil
func (r *ExtractorRegistry) GetExtractor(filename string) tcSvc.Extractor {
	ext := Ext(filename)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, extractor := range r.extractors {
		if extractor.CanExtract(ext) {
			return extractor
		}
	}
	return nil
}

// SupportedExtensions returns the registered extensions in registration order
func (r *ExtractorRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.extensions))
	copy(out, r.extensions)
	return out
}

// Ext returns the lowercase extension of filename including the dot
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
