package services

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type ArchiveService interface {
	CreateArchive(ctx context.Context, req *CreateArchiveRequest) (*models.Archive, error)
	ListArchives(ctx context.Context, userID string) ([]models.Archive, error)
	DeleteArchive(ctx context.Context, id, userID string) error
	AddItem(ctx context.Context, archiveID, itemID, userID string) (*models.ArchiveItem, error)
	ListItems(ctx context.Context, archiveID, userID string) ([]models.ArchiveItem, error)
}

type CreateArchiveRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	UserID      string  `json:"-"`
}
