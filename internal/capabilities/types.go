package capabilities

import "gopkg.in/yaml.v3"

// ModelCapabilities is the catalog entry for one hosted model
type ModelCapabilities struct {
	// Model identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`

	ContextWindow int `yaml:"context_window" json:"context_window"`
	MaxOutput     int `yaml:"max_output" json:"max_output"`

	// SupportsStructuredOutput means the model honours a JSON schema response format
	SupportsStructuredOutput bool `yaml:"supports_structured_output" json:"supports_structured_output"`
}

// ProviderCapabilities lists a provider's models in file order
type ProviderCapabilities struct {
	Provider string              `yaml:"provider" json:"provider"`
	Models   []ModelCapabilities `yaml:"-" json:"models"`
}

// UnmarshalYAML keeps the model order of the YAML mapping, which a Go map would lose
func (p *ProviderCapabilities) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Provider string                       `yaml:"provider"`
		Models   map[string]ModelCapabilities `yaml:"models"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	p.Provider = raw.Provider

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "models" {
			continue
		}
		models := node.Content[i+1]
		for j := 0; j+1 < len(models.Content); j += 2 {
			id := models.Content[j].Value
			if model, ok := raw.Models[id]; ok {
				model.ID = id
				p.Models = append(p.Models, model)
			}
		}
		break
	}
	return nil
}
