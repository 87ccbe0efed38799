package streaming

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/config"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	llmRepo "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories/llm"
	llmSvc "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/metrics"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/conversation"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/providers"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/tools"
)

// ModelFactory builds a chat model for one request.
type ModelFactory interface {
	GetModel(provider, model, apiKey string) (llms.Model, error)
	EnvAPIKey(provider string) string
}

// KeyLookup finds a user's stored API key for a model name. It returns ""
// when the user has none.
type KeyLookup interface {
	LookupAPIKey(ctx context.Context, modelName, userID string) (string, error)
}

// ToolSupport reports models known to reject tool definitions.
type ToolSupport interface {
	IsToolCallUnsupported(provider, model string) bool
}

// Deps are the collaborators of Service. UserRepo, AgentRepo, McpRepo and
// Keys may be nil.
type Deps struct {
	Config       config.ChatConfig
	DefaultModel llmModels.ChatModel
	Session      SessionUser
	Models       ModelFactory
	Keys         KeyLookup
	Capabilities ToolSupport
	Tools        *tools.ToolRegistry
	ChatRepo     llmRepo.ChatRepository
	UserRepo     repositories.UserRepository
	AgentRepo    repositories.AgentRepository
	McpRepo      repositories.McpRepository
	TxManager    repositories.TransactionManager
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// Service implements llmSvc.StreamingService.
type Service struct {
	cfg          config.ChatConfig
	defaultModel llmModels.ChatModel
	models       ModelFactory
	keys         KeyLookup
	capabilities ToolSupport
	catalog      *tools.ToolRegistry
	chatRepo     llmRepo.ChatRepository
	txManager    repositories.TransactionManager
	prompts      *systemPromptResolver
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func NewService(d Deps) *Service {
	catalog := d.Tools
	if catalog == nil {
		catalog = tools.NewToolRegistry()
	}
	if d.Config.MaxSteps <= 0 {
		d.Config.MaxSteps = 1
	}
	return &Service{
		cfg:          d.Config,
		defaultModel: d.DefaultModel,
		models:       d.Models,
		keys:         d.Keys,
		capabilities: d.Capabilities,
		catalog:      catalog,
		chatRepo:     d.ChatRepo,
		txManager:    d.TxManager,
		prompts:      newSystemPromptResolver(d.UserRepo, d.AgentRepo, d.McpRepo, d.Session, d.Logger),
		metrics:      d.Metrics,
		logger:       d.Logger,
	}
}

var _ llmSvc.StreamingService = (*Service)(nil)

var isUUID = validation.By(func(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return validation.NewError("validation_is_uuid", "must be a valid UUID")
	}
	return nil
})

func validateChatRequest(req *llmSvc.ChatRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ThreadID, validation.Required, isUUID),
		validation.Field(&req.Message, validation.Required),
		validation.Field(&req.ToolChoice, validation.In(
			llmModels.ToolChoiceAuto, llmModels.ToolChoiceNone, llmModels.ToolChoiceManual,
		)),
	)
	if err != nil {
		return domain.ValidationFailed(err)
	}

	msg := req.Message
	err = validation.ValidateStruct(msg,
		validation.Field(&msg.ID, validation.Required),
		validation.Field(&msg.Role, validation.Required, validation.In(
			llmModels.RoleUser, llmModels.RoleAssistant, llmModels.RoleSystem,
		)),
	)
	if err != nil {
		return domain.ValidationFailed(fmt.Errorf("message: %w", err))
	}
	return nil
}

// Start runs every step that can fail cleanly: validation, model and key
// resolution, thread ownership, tool loading and the system prompt.
func (s *Service) Start(ctx context.Context, req *llmSvc.ChatRequest) (llmSvc.ChatStream, error) {
	if err := validateChatRequest(req); err != nil {
		return nil, err
	}
	if req.ToolChoice == "" {
		req.ToolChoice = llmModels.ToolChoiceAuto
	}

	chatModel, err := s.resolveChatModel(req.ChatModel)
	if err != nil {
		return nil, err
	}

	apiKey, err := s.resolveAPIKey(ctx, req, chatModel)
	if err != nil {
		return nil, err
	}
	model, err := s.models.GetModel(chatModel.Provider, chatModel.Model, apiKey)
	if err != nil {
		return nil, err
	}

	thread, err := s.ensureThread(ctx, req)
	if err != nil {
		return nil, err
	}

	supportToolCall := s.capabilities == nil || !s.capabilities.IsToolCallUnsupported(chatModel.Provider, chatModel.Model)
	toolsAllowed := supportToolCall && (req.ToolChoice != llmModels.ToolChoiceNone || len(req.Mentions) > 0)

	agent, err := s.prompts.resolveAgent(ctx, req.Mentions, req.UserID)
	if err != nil {
		return nil, err
	}
	mentions := req.Mentions
	if agent != nil && len(agent.Instructions.Mentions) > 0 {
		mentions = append(append([]llmModels.Mention{}, mentions...), agent.Instructions.Mentions...)
	}

	toolset, err := tools.LoadOrEmpty(s.catalog, tools.LoadOptions{
		Allowed:  toolsAllowed,
		Mentions: mentions,
		Toolkits: req.AllowedAppDefaultToolkit,
	})
	if err != nil {
		return nil, err
	}

	systemPrompt, err := s.prompts.Resolve(ctx, req, agent, toolsAllowed, supportToolCall)
	if err != nil {
		return nil, err
	}

	history, err := conversation.BuildMessages([]llmModels.UIMessage{*req.Message})
	if err != nil {
		return nil, domain.ValidationFailed(err)
	}
	messages := make([]llms.MessageContent, 0, len(history)+1)
	if systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	messages = append(messages, history...)

	messageID := uuid.NewString()
	if req.Message.Role == llmModels.RoleAssistant {
		messageID = req.Message.ID
	}

	s.logger.Info("chat stream prepared",
		"thread_id", thread.ID,
		"message_id", messageID,
		"provider", chatModel.Provider,
		"model", chatModel.Model,
		"tool_choice", req.ToolChoice,
		"support_tool_call", supportToolCall,
		"tools", toolset.Len(),
		"mentions", len(req.Mentions),
	)

	return &chatStream{
		svc:       s,
		req:       req,
		thread:    thread,
		chatModel: chatModel,
		model:     model,
		messages:  messages,
		toolset:   toolset,
		agent:     agent,
		messageID: messageID,
	}, nil
}

// resolveChatModel falls back to the configured default and infers a
// missing provider from the model name.
func (s *Service) resolveChatModel(cm *llmModels.ChatModel) (llmModels.ChatModel, error) {
	if cm == nil || (cm.Provider == "" && cm.Model == "") {
		return s.defaultModel, nil
	}
	if cm.Model == "" {
		return llmModels.ChatModel{}, domain.Invalid("chatModel.model is required")
	}
	if cm.Provider != "" {
		return *cm, nil
	}
	info, err := providers.ParseModel(cm.Model)
	if err != nil {
		return llmModels.ChatModel{}, domain.Invalid(err.Error())
	}
	return llmModels.ChatModel{Provider: info.Provider, Model: info.Model}, nil
}

// resolveAPIKey picks, in order: the key in the request, the user's stored
// key for the model, the server's key for the provider.
func (s *Service) resolveAPIKey(ctx context.Context, req *llmSvc.ChatRequest, cm llmModels.ChatModel) (string, error) {
	if k := strings.TrimSpace(req.APIKey); k != "" {
		return k, nil
	}
	if s.keys != nil {
		k, err := s.keys.LookupAPIKey(ctx, cm.Model, req.UserID)
		if err != nil {
			return "", fmt.Errorf("lookup api key: %w", err)
		}
		if k != "" {
			return k, nil
		}
	}
	return s.models.EnvAPIKey(cm.Provider), nil
}

// ensureThread loads the thread, creating it on first use. Another user's
// thread is forbidden.
func (s *Service) ensureThread(ctx context.Context, req *llmSvc.ChatRequest) (*llmModels.ChatThread, error) {
	thread, err := s.chatRepo.SelectThread(ctx, req.ThreadID)
	if errors.Is(err, domain.ErrNotFound) {
		thread = &llmModels.ChatThread{
			ID:     req.ThreadID,
			Title:  threadTitle(req.Message),
			UserID: req.UserID,
		}
		err = s.chatRepo.InsertThread(ctx, thread)
		if errors.Is(err, domain.ErrConflict) {
			// Created concurrently by another request.
			thread, err = s.chatRepo.SelectThread(ctx, req.ThreadID)
		}
	}
	if err != nil {
		return nil, err
	}
	if thread.UserID != req.UserID {
		return nil, domain.Forbidden("Forbidden")
	}
	return thread, nil
}

func threadTitle(msg *llmModels.UIMessage) string {
	title := strings.Join(strings.Fields(msg.TextContent()), " ")
	if utf8.RuneCountInString(title) <= config.MaxThreadTitleLength {
		return title
	}
	return string([]rune(title)[:config.MaxThreadTitleLength])
}

// metadata is attached to the finish chunk and the saved assistant row.
func (s *chatStream) metadata(usage llmModels.Usage) *llmModels.ChatMetadata {
	cm := llmModels.DefaultChatModel
	if s.req.ChatModel != nil {
		cm = *s.req.ChatModel
	}
	md := &llmModels.ChatMetadata{
		Usage:         &usage,
		ChatModel:     &cm,
		ToolChoice:    s.req.ToolChoice,
		MentionsCount: len(s.req.Mentions),
	}
	if s.agent != nil {
		md.AgentID = s.agent.ID
	}
	return md
}
