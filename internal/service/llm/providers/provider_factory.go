package providers

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/config"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/providers/lorem"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// ProviderFactory creates chat models. Models are built per request
// because the API key can differ per user.
type ProviderFactory struct {
	config *config.Config
}

func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{config: cfg}
}

// EnvAPIKey is the server-wide key for a provider, or "" if none is set.
func (f *ProviderFactory) EnvAPIKey(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return f.config.OpenAIAPIKey
	case ProviderAnthropic:
		return f.config.AnthropicAPIKey
	case ProviderOpenRouter:
		return f.config.OpenRouterAPIKey
	}
	return ""
}

// RequiresAPIKey reports whether the provider refuses to run without a key.
func RequiresAPIKey(provider string) bool {
	switch provider {
	case ProviderOllama, ProviderLorem:
		return false
	}
	return true
}

// GetModel returns a model for provider/model authenticated with apiKey.
//
// Supported providers:
//   - "openai" - OpenAI (OPENAI_BASE_URL overrides the endpoint)
//   - "anthropic" - Claude models via the Anthropic API
//   - "openRouter" - OpenRouter's OpenAI-compatible API
//   - "ollama" - a local Ollama server's OpenAI-compatible API
//   - "lorem" - mock provider for testing (no API key required)
func (f *ProviderFactory) GetModel(provider, model, apiKey string) (llms.Model, error) {
	if apiKey == "" && RequiresAPIKey(provider) {
		return nil, domain.Invalid(fmt.Sprintf("Missing API key for provider %s", provider))
	}

	var (
		m   llms.Model
		err error
	)
	switch provider {
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithToken(apiKey), openai.WithModel(model)}
		if f.config.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(f.config.OpenAIBaseURL))
		}
		m, err = openai.New(opts...)
	case ProviderOpenRouter:
		m, err = openai.New(openai.WithToken(apiKey), openai.WithModel(model), openai.WithBaseURL(openRouterBaseURL))
	case ProviderOllama:
		if apiKey == "" {
			// The OpenAI client refuses an empty token; Ollama ignores it.
			apiKey = "ollama"
		}
		m, err = openai.New(openai.WithToken(apiKey), openai.WithModel(model), openai.WithBaseURL(f.config.OllamaBaseURL))
	case ProviderAnthropic:
		m, err = anthropic.New(anthropic.WithToken(apiKey), anthropic.WithModel(model))
	case ProviderLorem:
		return lorem.New(model), nil
	default:
		return nil, domain.Invalid(fmt.Sprintf("Unsupported provider: %s", provider))
	}
	if err != nil {
		return nil, fmt.Errorf("create %s model: %w", provider, err)
	}
	return m, nil
}
