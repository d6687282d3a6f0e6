package httputil

import (
	"context"
	"net/http"
)

type contextKey string

const subjectKey contextKey = "subject"

// WithSubject stores the authenticated caller's subject claim on the request
func WithSubject(r *http.Request, subject string) *http.Request {
	ctx := context.WithValue(r.Context(), subjectKey, subject)
	return r.WithContext(ctx)
}

// GetSubject returns the authenticated subject, or "" when auth is disabled
func GetSubject(r *http.Request) string {
	subject, _ := r.Context().Value(subjectKey).(string)
	return subject
}
