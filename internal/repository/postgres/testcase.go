package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
	"testforge/internal/domain/repositories"
)

const testCaseColumns = `id, title, description, preconditions, steps, expected_result,
	priority, type, status, tags, source_requirement, created_at, updated_at`

// PostgresTestCaseRepository stores one row per test case.
// Storage order is insertion order (the position column).
type PostgresTestCaseRepository struct {
	pool      *pgxpool.Pool
	tables    *TableNames
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewTestCaseRepository creates a new test case repository
func NewTestCaseRepository(config *RepositoryConfig, txManager repositories.TransactionManager) repositories.TestCaseRepository {
	return &PostgresTestCaseRepository{
		pool:      config.Pool,
		tables:    config.Tables,
		txManager: txManager,
		logger:    config.Logger,
	}
}

// GetAll retrieves every test case in insertion order
func (r *PostgresTestCaseRepository) GetAll(ctx context.Context) ([]testcase.TestCase, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY position`, testCaseColumns, r.tables.TestCases)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list test cases: %w", err)
	}
	defer rows.Close()

	cases := []testcase.TestCase{}
	for rows.Next() {
		tc, err := scanTestCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan test case: %w", err)
		}
		cases = append(cases, *tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test cases: %w", err)
	}

	return cases, nil
}

// GetByID retrieves a test case by ID
func (r *PostgresTestCaseRepository) GetByID(ctx context.Context, id string) (*testcase.TestCase, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, testCaseColumns, r.tables.TestCases)

	executor := GetExecutor(ctx, r.pool)
	tc, err := scanTestCase(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("test case %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get test case: %w", err)
	}
	return tc, nil
}

// Save inserts all cases in one transaction
func (r *PostgresTestCaseRepository) Save(ctx context.Context, cases []testcase.TestCase) ([]testcase.TestCase, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.tables.TestCases, testCaseColumns)

	err := r.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, r.pool)
		for i := range cases {
			tc := &cases[i]
			_, err := executor.Exec(txCtx, query,
				tc.ID,
				tc.Title,
				tc.Description,
				tc.Preconditions,
				nonNil(tc.Steps),
				tc.ExpectedResult,
				string(tc.Priority),
				string(tc.Type),
				string(tc.Status),
				nonNil(tc.Tags),
				tc.SourceRequirement,
				tc.CreatedAt,
				tc.UpdatedAt,
			)
			if err != nil {
				if IsPgDuplicateError(err) {
					return fmt.Errorf("%w: test case %s already exists", domain.ErrValidation, tc.ID)
				}
				return fmt.Errorf("insert test case: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("test cases inserted", "count", len(cases))

	added := make([]testcase.TestCase, len(cases))
	copy(added, cases)
	return added, nil
}

// Update locks the row, merges the patch and writes it back
func (r *PostgresTestCaseRepository) Update(ctx context.Context, id string, patch *testcase.Patch) (*testcase.TestCase, error) {
	selectQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, testCaseColumns, r.tables.TestCases)
	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, preconditions = $3, steps = $4,
			expected_result = $5, priority = $6, type = $7, status = $8,
			tags = $9, source_requirement = $10, updated_at = $11
		WHERE id = $12
	`, r.tables.TestCases)

	var updated *testcase.TestCase
	err := r.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		executor := GetExecutor(txCtx, r.pool)

		tc, err := scanTestCase(executor.QueryRow(txCtx, selectQuery, id))
		if err != nil {
			if IsPgNoRowsError(err) {
				return fmt.Errorf("test case %s: %w", id, domain.ErrNotFound)
			}
			return fmt.Errorf("get test case: %w", err)
		}

		patch.Apply(tc, time.Now().UTC())

		_, err = executor.Exec(txCtx, updateQuery,
			tc.Title,
			tc.Description,
			tc.Preconditions,
			nonNil(tc.Steps),
			tc.ExpectedResult,
			string(tc.Priority),
			string(tc.Type),
			string(tc.Status),
			nonNil(tc.Tags),
			tc.SourceRequirement,
			tc.UpdatedAt,
			id,
		)
		if err != nil {
			return fmt.Errorf("update test case: %w", err)
		}

		updated = tc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes one row and reports whether it existed
func (r *PostgresTestCaseRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.TestCases)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete test case: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func scanTestCase(row pgx.Row) (*testcase.TestCase, error) {
	var (
		tc                     testcase.TestCase
		priority, kind, status string
	)
	err := row.Scan(
		&tc.ID,
		&tc.Title,
		&tc.Description,
		&tc.Preconditions,
		&tc.Steps,
		&tc.ExpectedResult,
		&priority,
		&kind,
		&status,
		&tc.Tags,
		&tc.SourceRequirement,
		&tc.CreatedAt,
		&tc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tc.Priority = testcase.Priority(priority)
	tc.Type = testcase.TestType(kind)
	tc.Status = testcase.Status(status)
	tc.CreatedAt = tc.CreatedAt.UTC()
	tc.UpdatedAt = tc.UpdatedAt.UTC()
	tc.Steps = nonNil(tc.Steps)
	tc.Tags = nonNil(tc.Tags)
	return &tc, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
