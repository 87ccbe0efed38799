package services

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type BookmarkService interface {
	Toggle(ctx context.Context, req *ToggleBookmarkRequest) (bool, error)
	List(ctx context.Context, userID string) ([]models.Bookmark, error)
}

type ToggleBookmarkRequest struct {
	ItemID   string `json:"itemId"`
	ItemType string `json:"itemType"`
	UserID   string `json:"-"`
}
