package providers

import (
	"fmt"
	"strings"
)

// Provider names as clients send them in chatModel.provider.
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openRouter"
	ProviderOllama     = "ollama"
	ProviderLorem      = "lorem"
)

// ModelInfo is a resolved provider and model pair.
type ModelInfo struct {
	Provider string
	Model    string
}

// ParseModel extracts the provider from a model string.
//
// Supported formats:
//   - "gpt-4o-mini" → {openai, gpt-4o-mini}
//   - "claude-3-5-haiku-latest" → {anthropic, claude-3-5-haiku-latest}
//   - "lorem-fast" → {lorem, lorem-fast}
//   - "openrouter/qwen/qwen3-8b:free" → {openRouter, qwen/qwen3-8b:free}
//   - "ollama/gemma3:1b" → {ollama, gemma3:1b}
//
// A "/" splits off an explicit provider; otherwise the provider is inferred
// from the model prefix.
func ParseModel(modelStr string) (*ModelInfo, error) {
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if prefix, model, ok := strings.Cut(modelStr, "/"); ok {
		provider := canonicalProvider(prefix)
		if provider == "" {
			return nil, fmt.Errorf("unknown provider %q in model string: %s", prefix, modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}
		return &ModelInfo{Provider: provider, Model: model}, nil
	}

	provider := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}
	return &ModelInfo{Provider: provider, Model: modelStr}, nil
}

// canonicalProvider maps a provider name in any case to its canonical form.
func canonicalProvider(name string) string {
	switch strings.ToLower(name) {
	case "openai":
		return ProviderOpenAI
	case "anthropic":
		return ProviderAnthropic
	case "openrouter":
		return ProviderOpenRouter
	case "ollama":
		return ProviderOllama
	case "lorem":
		return ProviderLorem
	}
	return ""
}

func inferProvider(model string) string {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "claude-"):
		return ProviderAnthropic
	case strings.HasPrefix(m, "gpt-"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"), strings.HasPrefix(m, "o4"):
		return ProviderOpenAI
	case strings.HasPrefix(m, "lorem-"):
		return ProviderLorem
	}
	return ""
}
