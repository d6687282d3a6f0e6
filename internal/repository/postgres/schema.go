package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the test case table and its indexes when missing
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				position           BIGSERIAL,
				id                 TEXT PRIMARY KEY,
				title              TEXT NOT NULL,
				description        TEXT NOT NULL DEFAULT '',
				preconditions      TEXT NOT NULL DEFAULT '',
				steps              TEXT[] NOT NULL DEFAULT '{}',
				expected_result    TEXT NOT NULL,
				priority           TEXT NOT NULL,
				type               TEXT NOT NULL,
				status             TEXT NOT NULL,
				tags               TEXT[] NOT NULL DEFAULT '{}',
				source_requirement TEXT NOT NULL DEFAULT '',
				created_at         TIMESTAMPTZ NOT NULL,
				updated_at         TIMESTAMPTZ NOT NULL,
				CHECK (updated_at >= created_at)
			)`, tables.TestCases),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_position_idx ON %s (position)`, tables.TestCases, tables.TestCases),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_status_idx ON %s (status)`, tables.TestCases, tables.TestCases),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes the test case table
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tables.TestCases)); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}
