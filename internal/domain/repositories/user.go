package repositories

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type UserRepository interface {
	// GetByID returns domain.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Insert creates the user, doing nothing if the id already exists.
	Insert(ctx context.Context, user *models.User) error
	UpdatePreferences(ctx context.Context, userID string, prefs models.UserPreferences) error
}
