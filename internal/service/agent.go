package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/config"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
)

type AgentService struct {
	repo   repositories.AgentRepository
	logger *slog.Logger
}

func NewAgentService(repo repositories.AgentRepository, logger *slog.Logger) *AgentService {
	return &AgentService{repo: repo, logger: logger}
}

var _ services.AgentService = (*AgentService)(nil)

func validateAgent(req *services.AgentRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPrivate
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxAgentNameLength)),
		validation.Field(&req.Visibility, validation.In(models.VisibilityPublic, models.VisibilityPrivate, models.VisibilityReadonly)),
	)
	if err != nil {
		return domain.ValidationFailed(err)
	}
	return nil
}

func (s *AgentService) CreateAgent(ctx context.Context, req *services.AgentRequest) (*models.Agent, error) {
	if err := validateAgent(req); err != nil {
		return nil, err
	}

	agent := &models.Agent{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		UserID:       req.UserID,
		Instructions: req.Instructions,
		Visibility:   req.Visibility,
	}
	if err := s.repo.Insert(ctx, agent); err != nil {
		return nil, err
	}

	s.logger.Info("agent created", "id", agent.ID, "name", agent.Name, "user_id", req.UserID)
	return agent, nil
}

// GetAgent hides private agents from everyone but their owner.
func (s *AgentService) GetAgent(ctx context.Context, id, userID string) (*models.Agent, error) {
	agent, err := s.repo.SelectByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Agent not found")
	}
	if err != nil {
		return nil, err
	}
	if agent.UserID != userID && agent.Visibility == models.VisibilityPrivate {
		return nil, domain.Forbidden("Forbidden")
	}
	return agent, nil
}

func (s *AgentService) ListAgents(ctx context.Context, userID string) ([]models.Agent, error) {
	return s.repo.SelectByUserID(ctx, userID)
}

// UpdateAgent allows the owner, or anyone for a public agent. Readonly
// agents are owner-only.
func (s *AgentService) UpdateAgent(ctx context.Context, id string, req *services.AgentRequest) (*models.Agent, error) {
	if err := validateAgent(req); err != nil {
		return nil, err
	}

	agent, err := s.GetAgent(ctx, id, req.UserID)
	if err != nil {
		return nil, err
	}
	if agent.UserID != req.UserID && agent.Visibility != models.VisibilityPublic {
		return nil, domain.Forbidden("Forbidden")
	}

	agent.Name = req.Name
	agent.Description = req.Description
	agent.Icon = req.Icon
	agent.Instructions = req.Instructions
	if agent.UserID == req.UserID {
		agent.Visibility = req.Visibility
	}
	if err := s.repo.Update(ctx, agent); err != nil {
		return nil, err
	}

	s.logger.Info("agent updated", "id", agent.ID, "user_id", req.UserID)
	return agent, nil
}

func (s *AgentService) DeleteAgent(ctx context.Context, id, userID string) error {
	agent, err := s.GetAgent(ctx, id, userID)
	if err != nil {
		return err
	}
	if agent.UserID != userID {
		return domain.Forbidden("Forbidden")
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("agent deleted", "id", id, "user_id", userID)
	return nil
}
