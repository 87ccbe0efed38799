package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/cache"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/config"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/metrics"
)

type StaticModelService struct {
	repo    repositories.StaticModelRepository
	cache   cache.KeyCache
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewStaticModelService(
	repo repositories.StaticModelRepository,
	keyCache cache.KeyCache,
	m *metrics.Metrics,
	logger *slog.Logger,
) *StaticModelService {
	if keyCache == nil {
		keyCache = cache.Noop{}
	}
	return &StaticModelService{repo: repo, cache: keyCache, metrics: m, logger: logger}
}

var _ services.StaticModelService = (*StaticModelService)(nil)

func (s *StaticModelService) GetByName(ctx context.Context, name, userID string) (*models.StaticModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("Missing name")
	}
	m, err := s.repo.GetByName(ctx, name, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Not found")
	}
	return m, err
}

func (s *StaticModelService) List(ctx context.Context, userID string) ([]models.StaticModel, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *StaticModelService) Save(ctx context.Context, req *services.SaveStaticModelRequest) (*models.StaticModel, error) {
	req.Name = strings.TrimSpace(req.Name)
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxStaticModelNameLength)),
		validation.Field(&req.APIKey, validation.Required, validation.Length(1, config.MaxAPIKeyLength)),
	)
	if err != nil {
		return nil, domain.ValidationFailed(err)
	}

	m, err := s.repo.Upsert(ctx, req.Name, req.APIKey, req.UserID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.UserID, req.Name)

	s.logger.Info("static model saved", "id", m.ID, "name", m.Name, "user_id", req.UserID)
	return m, nil
}

func (s *StaticModelService) Update(ctx context.Context, req *services.UpdateStaticModelRequest) (*models.StaticModel, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ID, validation.Required),
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, config.MaxStaticModelNameLength)),
		validation.Field(&req.APIKey, validation.NilOrNotEmpty, validation.Length(1, config.MaxAPIKeyLength)),
	)
	if err != nil {
		return nil, domain.ValidationFailed(err)
	}

	existing, err := s.owned(ctx, req.ID, req.UserID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, req.ID, models.StaticModelUpdate{Name: req.Name, APIKey: req.APIKey})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.UserID, existing.Name)
	if updated.Name != existing.Name {
		s.invalidate(ctx, req.UserID, updated.Name)
	}

	s.logger.Info("static model updated", "id", updated.ID, "name", updated.Name, "user_id", req.UserID)
	return updated, nil
}

func (s *StaticModelService) Delete(ctx context.Context, id, userID string) error {
	if strings.TrimSpace(id) == "" {
		return domain.Invalid("Missing id")
	}

	existing, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("Not found")
		}
		return err
	}
	s.invalidate(ctx, userID, existing.Name)

	s.logger.Info("static model deleted", "id", id, "user_id", userID)
	return nil
}

// LookupAPIKey returns "" with a nil error when the user has no key stored
// for modelName.
func (s *StaticModelService) LookupAPIKey(ctx context.Context, modelName, userID string) (string, error) {
	if modelName == "" || userID == "" {
		return "", nil
	}

	key, hit, err := s.cache.Get(ctx, userID, modelName)
	if err != nil {
		s.logger.Warn("key cache read failed", "error", err)
	}
	s.metrics.ObserveKeyCache(hit)
	if hit {
		return key, nil
	}

	m, err := s.repo.GetByName(ctx, modelName, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, userID, modelName, m.APIKey); err != nil {
		s.logger.Warn("key cache write failed", "error", err)
	}
	return m.APIKey, nil
}

// owned loads a record and checks it belongs to userID.
func (s *StaticModelService) owned(ctx context.Context, id, userID string) (*models.StaticModel, error) {
	m, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Not found")
	}
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, domain.Forbidden("Forbidden")
	}
	return m, nil
}

func (s *StaticModelService) invalidate(ctx context.Context, userID, name string) {
	if err := s.cache.Invalidate(ctx, userID, name); err != nil {
		s.logger.Warn("key cache invalidate failed", "name", name, "error", err)
	}
}
