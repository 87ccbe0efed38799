package repositories

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type McpRepository interface {
	SelectAll(ctx context.Context) ([]models.McpServer, error)
	SelectByID(ctx context.Context, id string) (*models.McpServer, error)
	// SelectServerCustomizations returns the user's prompts for the given
	// servers. Empty serverIDs returns nothing.
	SelectServerCustomizations(ctx context.Context, userID string, serverIDs []string) ([]models.McpServerCustomization, error)
	SelectToolCustomizations(ctx context.Context, userID string, serverIDs []string) ([]models.McpToolCustomization, error)
}
