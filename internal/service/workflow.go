package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
)

type WorkflowService struct {
	repo   repositories.WorkflowRepository
	logger *slog.Logger
}

func NewWorkflowService(repo repositories.WorkflowRepository, logger *slog.Logger) *WorkflowService {
	return &WorkflowService{repo: repo, logger: logger}
}

var _ services.WorkflowService = (*WorkflowService)(nil)

func (s *WorkflowService) ListWorkflows(ctx context.Context, userID string) ([]models.Workflow, error) {
	return s.repo.SelectByUserID(ctx, userID)
}

func (s *WorkflowService) GetStructure(ctx context.Context, id, userID string) (*models.WorkflowStructure, error) {
	structure, err := s.repo.SelectStructure(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Workflow not found")
	}
	if err != nil {
		return nil, err
	}
	if structure.UserID != userID && structure.Visibility == models.VisibilityPrivate {
		return nil, domain.Forbidden("Forbidden")
	}
	return structure, nil
}
