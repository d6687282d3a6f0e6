package models

import (
	"context"
	"errors"
	"log/slog"

	"testforge/internal/capabilities"
	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
	"testforge/internal/metrics"
)

var (
	errUnreachable = errors.New("ollama unreachable")
	errBadStatus   = errors.New("ollama returned an error")
)

// catalog implements ModelCatalog over the embedded OpenAI catalog and a live Ollama server
type catalog struct {
	registry         *capabilities.Registry
	ollama           *OllamaClient
	openAIConfigured bool
	metrics          *metrics.Metrics
	logger           *slog.Logger
}

// NewCatalog creates the model catalog.
// OpenAI models are only listed as available when an API key is configured.
func NewCatalog(
	registry *capabilities.Registry,
	ollama *OllamaClient,
	openAIConfigured bool,
	m *metrics.Metrics,
	logger *slog.Logger,
) tcSvc.ModelCatalog {
	return &catalog{
		registry:         registry,
		ollama:           ollama,
		openAIConfigured: openAIConfigured,
		metrics:          m,
		logger:           logger,
	}
}

// ListModels never fails; unavailable providers carry an error message instead
func (c *catalog) ListModels(ctx context.Context) []testcase.ProviderModels {
	return []testcase.ProviderModels{
		c.openAIModels(),
		c.ollamaModels(ctx),
	}
}

func (c *catalog) openAIModels() testcase.ProviderModels {
	result := testcase.ProviderModels{
		Provider: testcase.ProviderOpenAI,
		Models:   []testcase.ModelInfo{},
	}
	if !c.openAIConfigured {
		result.Error = "OpenAI API key is not configured."
		c.metrics.ObserveModelDiscovery(testcase.ProviderOpenAI, false)
		return result
	}

	models, err := c.registry.ModelInfos(testcase.ProviderOpenAI)
	if err != nil {
		c.logger.Error("openai catalog unavailable", "error", err)
		result.Error = "OpenAI model catalog is unavailable."
		c.metrics.ObserveModelDiscovery(testcase.ProviderOpenAI, false)
		return result
	}

	result.Available = true
	result.Models = models
	c.metrics.ObserveModelDiscovery(testcase.ProviderOpenAI, true)
	return result
}

func (c *catalog) ollamaModels(ctx context.Context) testcase.ProviderModels {
	result := testcase.ProviderModels{
		Provider: testcase.ProviderOllama,
		Models:   []testcase.ModelInfo{},
	}

	models, err := c.ollama.ListModels(ctx)
	if err != nil {
		c.logger.Debug("ollama discovery failed", "base_url", c.ollama.BaseURL(), "error", err)
		if errors.Is(err, errBadStatus) {
			result.Error = "Ollama returned an error."
		} else {
			result.Error = "Could not connect to Ollama. Make sure it is running on " + c.ollama.BaseURL()
		}
		c.metrics.ObserveModelDiscovery(testcase.ProviderOllama, false)
		return result
	}

	result.Available = true
	result.Models = models
	c.metrics.ObserveModelDiscovery(testcase.ProviderOllama, true)
	return result
}
