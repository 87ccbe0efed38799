package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/config"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
)

type ArchiveService struct {
	repo   repositories.ArchiveRepository
	logger *slog.Logger
}

func NewArchiveService(repo repositories.ArchiveRepository, logger *slog.Logger) *ArchiveService {
	return &ArchiveService{repo: repo, logger: logger}
}

var _ services.ArchiveService = (*ArchiveService)(nil)

func (s *ArchiveService) CreateArchive(ctx context.Context, req *services.CreateArchiveRequest) (*models.Archive, error) {
	req.Name = strings.TrimSpace(req.Name)
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxArchiveNameLength)),
	)
	if err != nil {
		return nil, domain.ValidationFailed(err)
	}

	a := &models.Archive{Name: req.Name, Description: req.Description, UserID: req.UserID}
	if err := s.repo.Insert(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("archive created", "id", a.ID, "user_id", req.UserID)
	return a, nil
}

func (s *ArchiveService) ListArchives(ctx context.Context, userID string) ([]models.Archive, error) {
	return s.repo.SelectByUserID(ctx, userID)
}

func (s *ArchiveService) DeleteArchive(ctx context.Context, id, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *ArchiveService) AddItem(ctx context.Context, archiveID, itemID, userID string) (*models.ArchiveItem, error) {
	if err := validation.Validate(itemID, validation.Required, isUUID); err != nil {
		return nil, domain.ValidationFailed(err)
	}
	if _, err := s.owned(ctx, archiveID, userID); err != nil {
		return nil, err
	}

	item := &models.ArchiveItem{ArchiveID: archiveID, ItemID: itemID, UserID: userID}
	if err := s.repo.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ArchiveService) ListItems(ctx context.Context, archiveID, userID string) ([]models.ArchiveItem, error) {
	if _, err := s.owned(ctx, archiveID, userID); err != nil {
		return nil, err
	}
	return s.repo.SelectItems(ctx, archiveID)
}

func (s *ArchiveService) owned(ctx context.Context, id, userID string) (*models.Archive, error) {
	a, err := s.repo.SelectByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Archive not found")
	}
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, domain.Forbidden("Forbidden")
	}
	return a, nil
}
