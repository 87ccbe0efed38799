package providers

import "testing"

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		modelStr     string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{name: "openai by prefix", modelStr: "gpt-4o-mini", wantProvider: ProviderOpenAI, wantModel: "gpt-4o-mini"},
		{name: "openai reasoning model", modelStr: "o3-mini", wantProvider: ProviderOpenAI, wantModel: "o3-mini"},
		{name: "anthropic by prefix", modelStr: "claude-3-5-haiku-latest", wantProvider: ProviderAnthropic, wantModel: "claude-3-5-haiku-latest"},
		{name: "lorem", modelStr: "lorem-fast", wantProvider: ProviderLorem, wantModel: "lorem-fast"},
		{name: "openrouter keeps nested path", modelStr: "openrouter/qwen/qwen3-8b:free", wantProvider: ProviderOpenRouter, wantModel: "qwen/qwen3-8b:free"},
		{name: "explicit provider any case", modelStr: "OpenRouter/google/gemma-3-27b-it:free", wantProvider: ProviderOpenRouter, wantModel: "google/gemma-3-27b-it:free"},
		{name: "ollama explicit", modelStr: "ollama/gemma3:1b", wantProvider: ProviderOllama, wantModel: "gemma3:1b"},
		{name: "empty string", modelStr: "", wantErr: true},
		{name: "unknown prefix", modelStr: "mistral-large", wantErr: true},
		{name: "unknown explicit provider", modelStr: "bedrock/claude-3", wantErr: true},
		{name: "empty model after provider", modelStr: "openai/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.modelStr)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseModel(%q) expected error, got %+v", tt.modelStr, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseModel(%q) unexpected error: %v", tt.modelStr, err)
			}
			if got.Provider != tt.wantProvider || got.Model != tt.wantModel {
				t.Errorf("ParseModel(%q) = {%s, %s}, want {%s, %s}", tt.modelStr, got.Provider, got.Model, tt.wantProvider, tt.wantModel)
			}
		})
	}
}
