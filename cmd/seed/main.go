package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"testforge/internal/config"
	"testforge/internal/domain/models/testcase"
	"testforge/internal/repository/filestore"
	"testforge/internal/repository/postgres"
	tcService "testforge/internal/service/testcase"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop the test case table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't import records")
	fromDir := flag.String("from", "", "Data directory of a file store to import (defaults to DATA_DIR)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping tables...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	dir := *fromDir
	if dir == "" {
		dir = cfg.DataDir
	}
	source := filestore.NewTestCaseStore(dir, logger)
	if _, err := os.Stat(source.Path()); err != nil {
		log.Fatalf("Nothing to import: %v", err)
	}

	records, err := source.GetAll(ctx)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", source.Path(), err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	repo := postgres.NewTestCaseRepository(repoConfig, postgres.NewTransactionManager(pool, logger))

	existing, err := repo.GetAll(ctx)
	if err != nil {
		log.Fatalf("Failed to read existing records: %v", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, tc := range existing {
		seen[tc.ID] = true
	}

	var fresh []testcase.TestCase
	for _, tc := range records {
		if !seen[tc.ID] {
			fresh = append(fresh, tc)
		}
	}
	log.Printf("📝 Importing %d of %d records from %s (%d already present)",
		len(fresh), len(records), source.Path(), len(records)-len(fresh))
	if len(fresh) == 0 {
		log.Println("✅ Nothing new to import")
		return
	}

	// The service validates every record before anything is written
	service := tcService.NewService(repo, logger)
	saved, err := service.Save(ctx, fresh)
	if err != nil {
		log.Fatalf("❌ Import failed: %v", err)
	}

	log.Printf("🎉 Seeding complete! Imported %d records", len(saved))
}
