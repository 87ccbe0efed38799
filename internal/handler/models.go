package handler

import (
	"log/slog"
	"net/http"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/capabilities"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/providers"
)

// EnvKeys reports the server-wide API key of a provider.
type EnvKeys interface {
	EnvAPIKey(provider string) string
}

// ModelsHandler lists the model catalog from the capability registry.
type ModelsHandler struct {
	registry *capabilities.Registry
	keys     EnvKeys
	logger   *slog.Logger
}

func NewModelsHandler(registry *capabilities.Registry, keys EnvKeys, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{registry: registry, keys: keys, logger: logger}
}

// ProviderResponse is one provider of the catalog. ServerKey reports
// whether requests work without a user-supplied key.
type ProviderResponse struct {
	Provider  string                           `json:"provider"`
	ServerKey bool                             `json:"serverKey"`
	Models    []capabilities.ModelCapabilities `json:"models"`
}

// ListModels returns every known provider and model.
// GET /api/models
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()
	out := make([]ProviderResponse, 0, len(all))
	for _, p := range all {
		out = append(out, ProviderResponse{
			Provider:  p.Provider,
			ServerKey: !providers.RequiresAPIKey(p.Provider) || h.keys.EnvAPIKey(p.Provider) != "",
			Models:    p.Models,
		})
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"providers": out})
}
