// Package llm wires the chat pipeline: providers, the tool catalog and the
// streaming service.
package llm

import (
	"log/slog"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/capabilities"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/config"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	llmRepo "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories/llm"
	llmSvc "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/metrics"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/providers"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/streaming"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/tools"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/tools/external"
)

// SetupProviders creates the provider factory and logs which providers
// have a server-wide key.
func SetupProviders(cfg *config.Config, logger *slog.Logger) *providers.ProviderFactory {
	factory := providers.NewProviderFactory(cfg)

	for _, p := range []string{providers.ProviderOpenAI, providers.ProviderAnthropic, providers.ProviderOpenRouter} {
		if factory.EnvAPIKey(p) != "" {
			logger.Info("provider available", "name", p)
		} else {
			logger.Warn("provider has no server key, requests must supply one", "name", p)
		}
	}
	logger.Info("provider available", "name", providers.ProviderOllama, "base_url", cfg.OllamaBaseURL)
	logger.Info("provider available", "name", providers.ProviderLorem)

	return factory
}

// SetupTools builds the app default tool catalog. Web search tools are
// registered only when a Tavily key is configured.
func SetupTools(cfg *config.Config, logger *slog.Logger) *tools.ToolRegistry {
	builder := tools.NewToolRegistryBuilder().
		WithVisualization().
		WithHTTP(nil)

	if cfg.TavilyAPIKey != "" {
		builder.WithWebSearch(external.NewTavilyClient(cfg.TavilyAPIKey))
	} else {
		logger.Warn("TAVILY_API_KEY not set - web search tools not available")
	}

	catalog := builder.Build()
	logger.Info("tool catalog ready", "tools", catalog.Len())
	return catalog
}

// Repositories are the stores the chat pipeline reads and writes.
type Repositories struct {
	Chat  llmRepo.ChatRepository
	User  repositories.UserRepository
	Agent repositories.AgentRepository
	Mcp   repositories.McpRepository
	Tx    repositories.TransactionManager
}

// Services holds all LLM-related services
type Services struct {
	Streaming    llmSvc.StreamingService
	Providers    *providers.ProviderFactory
	Capabilities *capabilities.Registry
	Tools        *tools.ToolRegistry
}

// SetupServices initializes the streaming service. keys resolves users'
// stored API keys.
func SetupServices(
	cfg *config.Config,
	repos Repositories,
	keys streaming.KeyLookup,
	capabilityRegistry *capabilities.Registry,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Services {
	factory := SetupProviders(cfg, logger)
	catalog := SetupTools(cfg, logger)

	streamingService := streaming.NewService(streaming.Deps{
		Config:       cfg.Chat,
		DefaultModel: llmModels.ChatModel{Provider: cfg.DefaultProvider, Model: cfg.DefaultModel},
		Session:      streaming.SessionUser{Name: cfg.SessionUserName, Email: cfg.SessionUserEmail},
		Models:       factory,
		Keys:         keys,
		Capabilities: capabilityRegistry,
		Tools:        catalog,
		ChatRepo:     repos.Chat,
		UserRepo:     repos.User,
		AgentRepo:    repos.Agent,
		McpRepo:      repos.Mcp,
		TxManager:    repos.Tx,
		Metrics:      m,
		Logger:       logger,
	})

	return &Services{
		Streaming:    streamingService,
		Providers:    factory,
		Capabilities: capabilityRegistry,
		Tools:        catalog,
	}
}
