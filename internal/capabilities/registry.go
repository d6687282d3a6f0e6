package capabilities

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"testforge/internal/domain/models/testcase"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the hosted-model catalog per provider
type Registry struct {
	providers map[string]*ProviderCapabilities
	mu        sync.RWMutex
}

// NewRegistry loads the embedded provider catalogs
func NewRegistry() (*Registry, error) {
	r := &Registry{
		providers: make(map[string]*ProviderCapabilities),
	}

	if err := r.loadProviderFile(testcase.ProviderOpenAI); err != nil {
		return nil, fmt.Errorf("failed to load %s capabilities: %w", testcase.ProviderOpenAI, err)
	}
	return r, nil
}

func (r *Registry) loadProviderFile(provider string) error {
	filename := fmt.Sprintf("config/%s.yaml", provider)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var caps ProviderCapabilities
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	r.mu.Lock()
	r.providers[provider] = &caps
	r.mu.Unlock()
	return nil
}

// GetModelCapabilities returns one catalog entry
func (r *Registry) GetModelCapabilities(provider, model string) (*ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	for i := range caps.Models {
		if caps.Models[i].ID == model {
			return &caps.Models[i], nil
		}
	}
	return nil, fmt.Errorf("unknown model %s for provider %s", model, provider)
}

// ListProviderModels returns a provider's models in catalog order
func (r *Registry) ListProviderModels(provider string) ([]ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	return caps.Models, nil
}

// ModelInfos converts a provider's catalog into selectable model entries
func (r *Registry) ModelInfos(provider string) ([]testcase.ModelInfo, error) {
	models, err := r.ListProviderModels(provider)
	if err != nil {
		return nil, err
	}

	out := make([]testcase.ModelInfo, 0, len(models))
	for _, m := range models {
		out = append(out, testcase.ModelInfo{
			ID:   m.ID,
			Name: m.DisplayName,
		})
	}
	return out, nil
}
