package repositories

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type AgentRepository interface {
	Insert(ctx context.Context, agent *models.Agent) error
	// SelectByID returns domain.ErrNotFound when absent.
	SelectByID(ctx context.Context, id string) (*models.Agent, error)
	// SelectByUserID lists the user's own agents plus every non-private one.
	SelectByUserID(ctx context.Context, userID string) ([]models.Agent, error)
	Update(ctx context.Context, agent *models.Agent) error
	// Delete removes the agent only if userID owns it.
	Delete(ctx context.Context, id, userID string) error
}
