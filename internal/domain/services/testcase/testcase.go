package testcase

import (
	"context"

	"testforge/internal/domain/models/testcase"
)

// TestCaseService handles validation and persistence of test cases
type TestCaseService interface {
	// List returns stored test cases matching the filter, in storage order
	List(ctx context.Context, filter testcase.Filter) ([]testcase.TestCase, error)

	// Get returns one test case or domain.ErrNotFound
	Get(ctx context.Context, id string) (*testcase.TestCase, error)

	// GetMany returns the cases for the given ids, skipping unknown ids
	GetMany(ctx context.Context, ids []string) ([]testcase.TestCase, error)

	// Save validates complete records and appends them, returning only the new records
	Save(ctx context.Context, cases []testcase.TestCase) ([]testcase.TestCase, error)

	// Update validates and applies a partial update
	Update(ctx context.Context, id string, patch *testcase.Patch) (*testcase.TestCase, error)

	// Delete removes one test case or returns domain.ErrNotFound
	Delete(ctx context.Context, id string) error

	// BulkDelete removes each id independently and reports every outcome
	BulkDelete(ctx context.Context, ids []string) (*testcase.BulkDeleteResult, error)
}
