package repositories

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type BookmarkRepository interface {
	// Toggle removes the bookmark if present, otherwise creates it.
	// Returns true when the item ends up bookmarked.
	Toggle(ctx context.Context, userID, itemID, itemType string) (bool, error)
	SelectByUserID(ctx context.Context, userID string) ([]models.Bookmark, error)
}
