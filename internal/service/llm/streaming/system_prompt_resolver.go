package streaming

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	llmSvc "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/prompts"
)

// SessionUser is the fallback identity used in the prompt when the user
// row is missing.
type SessionUser struct {
	Name  string
	Email string
}

// systemPromptResolver builds the system prompt from the user, the
// mentioned agent and the user's MCP customizations.
type systemPromptResolver struct {
	userRepo  repositories.UserRepository
	agentRepo repositories.AgentRepository
	mcpRepo   repositories.McpRepository
	session   SessionUser
	now       func() time.Time
	logger    *slog.Logger
}

func newSystemPromptResolver(
	userRepo repositories.UserRepository,
	agentRepo repositories.AgentRepository,
	mcpRepo repositories.McpRepository,
	session SessionUser,
	logger *slog.Logger,
) *systemPromptResolver {
	return &systemPromptResolver{
		userRepo:  userRepo,
		agentRepo: agentRepo,
		mcpRepo:   mcpRepo,
		session:   session,
		now:       time.Now,
		logger:    logger,
	}
}

// resolveAgent returns the first mentioned agent the user may use, or nil.
// A missing or hidden agent is logged and ignored.
func (r *systemPromptResolver) resolveAgent(ctx context.Context, mentions []llmModels.Mention, userID string) (*models.Agent, error) {
	if r.agentRepo == nil {
		return nil, nil
	}
	for _, m := range mentions {
		if m.Type != llmModels.MentionAgent || m.AgentID == "" {
			continue
		}
		agent, err := r.agentRepo.SelectByID(ctx, m.AgentID)
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("mentioned agent not found", "agent_id", m.AgentID)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if agent.UserID != userID && agent.Visibility == models.VisibilityPrivate {
			r.logger.Warn("mentioned agent is private", "agent_id", m.AgentID, "user_id", userID)
			return nil, nil
		}
		return agent, nil
	}
	return nil, nil
}

// Resolve merges, in order: the base user prompt, the MCP customization
// prompt (only when tools are allowed and servers are selected) and the
// no-tools directive (only when the model cannot call tools).
func (r *systemPromptResolver) Resolve(
	ctx context.Context,
	req *llmSvc.ChatRequest,
	agent *models.Agent,
	toolsAllowed bool,
	supportToolCall bool,
) (string, error) {
	uc := prompts.UserContext{
		Name:  r.session.Name,
		Email: r.session.Email,
		Agent: agent,
		Now:   r.now(),
	}
	if r.userRepo != nil {
		user, err := r.userRepo.GetByID(ctx, req.UserID)
		switch {
		case err == nil:
			uc.Name, uc.Email = user.Name, user.Email
			uc.Preferences = &user.Preferences
		case errors.Is(err, domain.ErrNotFound):
			r.logger.Debug("session user has no row, using configured identity", "user_id", req.UserID)
		default:
			return "", err
		}
	}

	var mcpPrompt string
	if toolsAllowed && len(req.AllowedMcpServers) > 0 && r.mcpRepo != nil {
		customizations, err := r.mcpCustomizations(ctx, req)
		if err != nil {
			return "", err
		}
		mcpPrompt = prompts.BuildMcpServerCustomizationsSystemPrompt(customizations)
	}

	var unsupported string
	if !supportToolCall {
		unsupported = prompts.ToolCallUnsupportedModelSystemPrompt
	}

	return prompts.MergeSystemPrompt(
		prompts.BuildUserSystemPrompt(uc),
		mcpPrompt,
		unsupported,
	), nil
}

func (r *systemPromptResolver) mcpCustomizations(ctx context.Context, req *llmSvc.ChatRequest) ([]prompts.ServerCustomization, error) {
	serverIDs := make([]string, 0, len(req.AllowedMcpServers))
	for id := range req.AllowedMcpServers {
		serverIDs = append(serverIDs, id)
	}

	servers, err := r.mcpRepo.SelectServerCustomizations(ctx, req.UserID, serverIDs)
	if err != nil {
		return nil, err
	}
	toolRows, err := r.mcpRepo.SelectToolCustomizations(ctx, req.UserID, serverIDs)
	if err != nil {
		return nil, err
	}

	byServer := make(map[string]*prompts.ServerCustomization, len(servers))
	var order []string
	for _, s := range servers {
		byServer[s.McpServerID] = &prompts.ServerCustomization{ServerName: s.ServerName, Prompt: s.Prompt}
		order = append(order, s.McpServerID)
	}
	for _, t := range toolRows {
		if !toolSelected(req.AllowedMcpServers[t.McpServerID], t.ToolName) {
			continue
		}
		c, ok := byServer[t.McpServerID]
		if !ok {
			c = &prompts.ServerCustomization{ServerName: t.McpServerID}
			byServer[t.McpServerID] = c
			order = append(order, t.McpServerID)
		}
		if c.Tools == nil {
			c.Tools = map[string]string{}
		}
		c.Tools[t.ToolName] = t.Prompt
	}

	out := make([]prompts.ServerCustomization, 0, len(order))
	for _, id := range order {
		out = append(out, *byServer[id])
	}
	return out, nil
}

// toolSelected treats an empty tool list as "every tool of the server".
func toolSelected(sel llmSvc.McpServerSelection, tool string) bool {
	if len(sel.Tools) == 0 {
		return true
	}
	for _, t := range sel.Tools {
		if t == tool {
			return true
		}
	}
	return false
}
