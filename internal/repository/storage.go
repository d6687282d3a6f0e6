package repository

import (
	"context"
	"fmt"
	"log/slog"

	"testforge/internal/config"
	"testforge/internal/domain/repositories"
	"testforge/internal/repository/filestore"
	"testforge/internal/repository/postgres"
)

// Open builds the test case repository selected by cfg.StorageDriver.
// The returned close func releases any pool and is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.TestCaseRepository, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect to database: %w", err)
		}

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			pool.Close()
			return nil, func() {}, fmt.Errorf("ensure schema: %w", err)
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		txManager := postgres.NewTransactionManager(pool, logger)
		logger.Info("storage ready", "driver", cfg.StorageDriver, "table", tables.TestCases)
		return postgres.NewTestCaseRepository(repoConfig, txManager), pool.Close, nil

	default:
		store := filestore.NewTestCaseStore(cfg.DataDir, logger)
		logger.Info("storage ready", "driver", config.StorageFile, "path", store.Path())
		return store, func() {}, nil
	}
}
