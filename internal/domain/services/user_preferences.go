package services

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

// UserPreferencesService reads and replaces the preferences that
// personalise the system prompt.
type UserPreferencesService interface {
	// GetPreferences returns empty preferences for a user with no row.
	GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, prefs *models.UserPreferences) (*models.UserPreferences, error)
}
