package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrExtraction    = errors.New("no usable content")
	ErrUpstream      = errors.New("upstream provider failed")
	ErrNotConfigured = errors.New("not configured")
)

// FieldError carries per-field validation messages alongside ErrValidation.
// The handler layer renders Fields as the "details" member of the problem response.
type FieldError struct {
	Message string
	Fields  map[string]string
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *FieldError) StatusCode() int {
	return http.StatusBadRequest
}

// Is allows errors.Is() to match against ErrValidation
func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

// ExtractionError reports that an uploaded file held nothing usable
// (corrupt spreadsheet, no sheets, zero stories after filtering).
type ExtractionError struct {
	FileName string
	Reason   string
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.FileName == "" {
		return e.Reason
	}
	return e.FileName + ": " + e.Reason
}

// StatusCode implements the HTTPError interface
func (e *ExtractionError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

// Is allows errors.Is() to match against ErrExtraction
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}
