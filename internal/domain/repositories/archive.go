package repositories

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type ArchiveRepository interface {
	Insert(ctx context.Context, a *models.Archive) error
	SelectByID(ctx context.Context, id string) (*models.Archive, error)
	SelectByUserID(ctx context.Context, userID string) ([]models.Archive, error)
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, item *models.ArchiveItem) error
	SelectItems(ctx context.Context, archiveID string) ([]models.ArchiveItem, error)
}
