package domain

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string
	Steps []string
}

func TestNewFieldError(t *testing.T) {
	s := sample{Steps: []string{"ok", ""}}
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Title, validation.Required.Error("title is required")),
		validation.Field(&s.Steps, validation.Each(validation.Required.Error("step is empty"))),
	)
	require.Error(t, err)

	fieldErr := NewFieldError("invalid test case", err)
	assert.ErrorIs(t, fieldErr, ErrValidation)

	var fe *FieldError
	require.ErrorAs(t, fieldErr, &fe)
	assert.Equal(t, map[string]string{
		"Title":   "title is required",
		"Steps.1": "step is empty",
	}, fe.Fields)
	assert.Equal(t, "invalid test case: Steps.1: step is empty; Title: title is required", fe.Error())
	assert.Equal(t, 400, fe.StatusCode())
}

func TestNewFieldError_PlainError(t *testing.T) {
	err := NewFieldError("bad", errors.New("at least one field must be provided"))

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "bad: at least one field must be provided", fe.Error())
}

func TestNewFieldError_Nil(t *testing.T) {
	assert.NoError(t, NewFieldError("x", nil))
}

func TestExtractionError(t *testing.T) {
	err := &ExtractionError{FileName: "a.csv", Reason: "could not parse CSV"}
	assert.ErrorIs(t, err, ErrExtraction)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, "a.csv: could not parse CSV", err.Error())
	assert.Equal(t, 422, err.StatusCode())
}
