package services

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

// WorkflowService exposes stored workflows. Execution is not supported.
type WorkflowService interface {
	ListWorkflows(ctx context.Context, userID string) ([]models.Workflow, error)
	GetStructure(ctx context.Context, id, userID string) (*models.WorkflowStructure, error)
}
