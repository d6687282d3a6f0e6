package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// NewFieldError converts an ozzo-validation result into a *FieldError keyed by
// JSON field path ("testCases.0.steps"). Internal rule errors are returned unchanged.
// A nil err returns nil.
func NewFieldError(message string, err error) error {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}

	fields := make(map[string]string)
	var errs validation.Errors
	if errors.As(err, &errs) {
		flattenErrors("", errs, fields)
	} else {
		fields[""] = err.Error()
	}

	return &FieldError{
		Message: fmt.Sprintf("%s: %s", message, summarize(fields)),
		Fields:  fields,
	}
}

func flattenErrors(prefix string, errs validation.Errors, out map[string]string) {
	for key, err := range errs {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flattenErrors(path, nested, out)
			continue
		}
		out[path] = err.Error()
	}
}

// summarize renders fields in stable order for the top-level message
func summarize(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			parts = append(parts, fields[k])
			continue
		}
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
