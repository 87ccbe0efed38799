package repositories

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

// StaticModelRepository stores per-user API keys by model name.
type StaticModelRepository interface {
	// GetByName looks up by (name, userID). Returns domain.ErrNotFound.
	GetByName(ctx context.Context, name, userID string) (*models.StaticModel, error)

	// Insert returns *domain.ConflictError on a duplicate (name, userID).
	Insert(ctx context.Context, m *models.StaticModel) error

	// Upsert is select-then-insert-or-update on (name, userID), updating only
	// the API key of an existing row.
	Upsert(ctx context.Context, name, apiKey, userID string) (*models.StaticModel, error)

	FindByUser(ctx context.Context, userID string) ([]models.StaticModel, error)

	// FindByID returns domain.ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (*models.StaticModel, error)

	// Update applies the non-nil fields. Returns domain.ErrNotFound.
	Update(ctx context.Context, id string, upd models.StaticModelUpdate) (*models.StaticModel, error)

	// Delete returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}
