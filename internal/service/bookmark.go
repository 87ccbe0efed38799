package service

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
)

type BookmarkService struct {
	repo   repositories.BookmarkRepository
	logger *slog.Logger
}

func NewBookmarkService(repo repositories.BookmarkRepository, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{repo: repo, logger: logger}
}

var _ services.BookmarkService = (*BookmarkService)(nil)

// isUUID is an ozzo rule backed by uuid.Parse.
var isUUID = validation.By(func(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return validation.NewError("validation_is_uuid", "must be a valid UUID")
	}
	return nil
})

func (s *BookmarkService) Toggle(ctx context.Context, req *services.ToggleBookmarkRequest) (bool, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ItemID, validation.Required, isUUID),
		validation.Field(&req.ItemType, validation.Required, validation.In(models.BookmarkItemAgent, models.BookmarkItemWorkflow)),
	)
	if err != nil {
		return false, domain.ValidationFailed(err)
	}

	bookmarked, err := s.repo.Toggle(ctx, req.UserID, req.ItemID, req.ItemType)
	if err != nil {
		return false, err
	}
	s.logger.Debug("bookmark toggled", "item_id", req.ItemID, "item_type", req.ItemType, "bookmarked", bookmarked)
	return bookmarked, nil
}

func (s *BookmarkService) List(ctx context.Context, userID string) ([]models.Bookmark, error) {
	return s.repo.SelectByUserID(ctx, userID)
}
