package repositories

import (
	"context"

	"testforge/internal/domain/models/testcase"
)

// TestCaseRepository is the durable mapping of id to test case
type TestCaseRepository interface {
	// GetAll returns every record in storage order.
	// A store that has never been written to returns an empty slice.
	GetAll(ctx context.Context) ([]testcase.TestCase, error)

	// GetByID returns domain.ErrNotFound when no record has the id
	GetByID(ctx context.Context, id string) (*testcase.TestCase, error)

	// Save appends records and returns exactly the records added
	Save(ctx context.Context, cases []testcase.TestCase) ([]testcase.TestCase, error)

	// Update merges patch over the stored record and bumps UpdatedAt.
	// Returns domain.ErrNotFound without writing anything when the id is unknown.
	Update(ctx context.Context, id string, patch *testcase.Patch) (*testcase.TestCase, error)

	// Delete removes the record and reports whether one was removed.
	// Nothing is written when the id is unknown.
	Delete(ctx context.Context, id string) (bool, error)
}
