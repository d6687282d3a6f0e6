package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"testforge/internal/auth"
	"testforge/internal/capabilities"
	"testforge/internal/config"
	tcSvc "testforge/internal/domain/services/testcase"
	"testforge/internal/handler"
	"testforge/internal/metrics"
	"testforge/internal/middleware"
	"testforge/internal/repository"
	"testforge/internal/service/export"
	"testforge/internal/service/extraction"
	"testforge/internal/service/generation"
	"testforge/internal/service/models"
	"testforge/internal/service/testcase"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.StorageDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Storage
	repo, closeRepo, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closeRepo()

	// Model capabilities
	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}

	// Generation providers; Ollama is always registered, OpenAI only with a key
	providers := []tcSvc.Provider{generation.NewOllamaProvider(cfg.OllamaBaseURL)}
	if cfg.OpenAIConfigured() {
		providers = append(providers, generation.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL))
	} else {
		logger.Warn("OPENAI_API_KEY not set; OpenAI generation disabled")
	}

	// Services
	testCaseService := testcase.NewService(repo, logger)
	extractor := extraction.NewStoryExtractor(m, logger)
	generationService := generation.NewService(providers, generation.Options{
		DefaultModel:     cfg.DefaultModel,
		OpenAIConfigured: cfg.OpenAIConfigured(),
		Concurrency:      cfg.GenerationConcurrency,
	}, m, logger)
	catalog := models.NewCatalog(
		capabilityRegistry,
		models.NewOllamaClient(cfg.OllamaBaseURL, cfg.ModelListTimeout),
		cfg.OpenAIConfigured(),
		m,
		logger,
	)

	handlers := &handler.Handlers{
		TestCases: handler.NewTestCaseHandler(testCaseService, logger),
		Upload:    handler.NewUploadHandler(extractor, cfg.MaxUploadBytes, logger),
		Generate:  handler.NewGenerateHandler(generationService, logger),
		Export:    handler.NewExportHandler(testCaseService, export.NewRegistry(), logger),
		Models:    handler.NewModelsHandler(catalog, logger),
	}

	logger.Info("services initialized",
		"upload_formats", extractor.SupportedExtensions(),
		"generation_concurrency", cfg.GenerationConcurrency,
	)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handlers.Register(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Metrics → Auth → Routes
	if cfg.AuthJWKSURL != "" {
		verifier, err := auth.NewJWTVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
		h = middleware.Auth(verifier, logger)(h)
		logger.Info("JWT authentication enabled")
	}
	h = middleware.Metrics(m, mux)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Generation calls can take a while, so the write timeout is generous
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
