package capabilities

import "gopkg.in/yaml.v3"

// ModelCapabilities describes one model of a provider.
type ModelCapabilities struct {
	ID string `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"displayName"`
	Description string `yaml:"description" json:"description,omitempty"`

	// SupportsTools false means the model must not be sent tool definitions;
	// the system prompt then tells it tools are unavailable.
	SupportsTools  bool `yaml:"supports_tools" json:"supportsTools"`
	SupportsVision bool `yaml:"supports_vision" json:"supportsVision"`

	ContextWindow int `yaml:"context_window" json:"contextWindow,omitempty"`
	MaxOutput     int `yaml:"max_output" json:"maxOutput,omitempty"`
}

// ProviderCapabilities lists a provider's models in file order.
type ProviderCapabilities struct {
	Provider string              `yaml:"provider" json:"provider"`
	Models   []ModelCapabilities `yaml:"-" json:"models"`
}

// UnmarshalYAML reads "models" as an ordered mapping of id -> capabilities.
func (p *ProviderCapabilities) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &yaml.TypeError{Errors: []string{"provider capabilities must be a mapping"}}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "provider":
			p.Provider = value.Value
		case "models":
			for j := 0; j+1 < len(value.Content); j += 2 {
				var m ModelCapabilities
				if err := value.Content[j+1].Decode(&m); err != nil {
					return err
				}
				m.ID = value.Content[j].Value
				p.Models = append(p.Models, m)
			}
		}
	}
	return nil
}
