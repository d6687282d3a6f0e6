package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage drivers
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`

	// Storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"file"`
	DataDir       string `env:"DATA_DIR" envDefault:"data"`
	DatabaseURL   string `env:"DATABASE_URL"`
	TablePrefix   string `env:"TABLE_PREFIX"`

	// LLM Configuration
	OpenAIAPIKey          string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL         string        `env:"OPENAI_BASE_URL"`
	DefaultModel          string        `env:"DEFAULT_MODEL" envDefault:"gpt-4o"`
	OllamaBaseURL         string        `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	ModelListTimeout      time.Duration `env:"MODEL_LIST_TIMEOUT" envDefault:"3s"`
	GenerationConcurrency int           `env:"GENERATION_CONCURRENCY" envDefault:"3"`

	// Uploads
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`

	// Optional JWT auth; disabled when empty
	AuthJWKSURL string `env:"AUTH_JWKS_URL"`

	// Logging
	LogDir      string `env:"LOG_DIR"`
	LogMaxFiles int    `env:"LOG_MAX_FILES" envDefault:"10"`

	// Debug flags
	Debug bool `env:"DEBUG"`
}

// Load reads configuration from the environment.
// Call godotenv.Load first to pick up a .env file.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.TablePrefix == "" {
		cfg.TablePrefix = getTablePrefix(cfg.Environment)
	}
	if _, ok := os.LookupEnv("DEBUG"); !ok {
		cfg.Debug = cfg.Environment != "prod"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenAIConfigured reports whether a usable OpenAI key is present.
// The placeholder from the sample env file counts as missing.
func (c *Config) OpenAIConfigured() bool {
	return c.OpenAIAPIKey != "" && c.OpenAIAPIKey != "your-openai-api-key-here"
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageFile:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want %s or %s)", c.StorageDriver, StorageFile, StoragePostgres)
	}
	if c.GenerationConcurrency < 1 {
		return fmt.Errorf("GENERATION_CONCURRENCY must be at least 1")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}
