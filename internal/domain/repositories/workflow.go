package repositories

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type WorkflowRepository interface {
	SelectByID(ctx context.Context, id string) (*models.Workflow, error)
	// SelectByUserID lists the user's workflows plus published non-private ones.
	SelectByUserID(ctx context.Context, userID string) ([]models.Workflow, error)
	// SelectStructure loads a workflow with its nodes and edges.
	SelectStructure(ctx context.Context, id string) (*models.WorkflowStructure, error)
}
