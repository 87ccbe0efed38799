package tools

import (
	"net/http"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/tools/external"
)

// ToolRegistryBuilder assembles the catalog of app default tools.
type ToolRegistryBuilder struct {
	registry *ToolRegistry
	config   *ToolConfig
}

func NewToolRegistryBuilder() *ToolRegistryBuilder {
	return &ToolRegistryBuilder{
		registry: NewToolRegistry(),
		config:   DefaultToolConfig(),
	}
}

// WithConfig sets custom tool configuration. Call it before the With*Tools
// methods.
func (b *ToolRegistryBuilder) WithConfig(config *ToolConfig) *ToolRegistryBuilder {
	if config != nil {
		b.config = config
	}
	return b
}

func (b *ToolRegistryBuilder) WithVisualization() *ToolRegistryBuilder {
	return b.add(visualizationTools())
}

// WithWebSearch registers webSearch and webContent. A nil client registers
// nothing.
func (b *ToolRegistryBuilder) WithWebSearch(client external.SearchClient) *ToolRegistryBuilder {
	if client == nil {
		return b
	}
	return b.add(webSearchTools(client, b.config))
}

// WithHTTP registers the http tool. A nil client gets one with the
// configured timeout.
func (b *ToolRegistryBuilder) WithHTTP(client *http.Client) *ToolRegistryBuilder {
	return b.add(httpTools(client, b.config))
}

func (b *ToolRegistryBuilder) add(tools []Tool) *ToolRegistryBuilder {
	for _, t := range tools {
		b.registry.Register(t)
	}
	return b
}

func (b *ToolRegistryBuilder) Build() *ToolRegistry {
	return b.registry
}
