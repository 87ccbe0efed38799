package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
)

const maxPreferenceLength = 1000

// SessionIdentity is used to create the user row the first time a mocked
// session user saves preferences.
type SessionIdentity struct {
	Name  string
	Email string
}

type UserPreferencesService struct {
	repo    repositories.UserRepository
	session SessionIdentity
	logger  *slog.Logger
}

func NewUserPreferencesService(repo repositories.UserRepository, session SessionIdentity, logger *slog.Logger) *UserPreferencesService {
	return &UserPreferencesService{repo: repo, session: session, logger: logger}
}

var _ services.UserPreferencesService = (*UserPreferencesService)(nil)

// EnsureSessionUser creates the mocked session user's row when it does not
// exist yet. Threads and static models reference it.
func (s *UserPreferencesService) EnsureSessionUser(ctx context.Context, userID string) error {
	_, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get session user: %w", err)
	}
	err = s.repo.Insert(ctx, &models.User{
		ID:            userID,
		Name:          s.session.Name,
		Email:         s.session.Email,
		EmailVerified: true,
		Preferences:   models.UserPreferences{DisplayName: s.session.Name},
	})
	if err != nil {
		return fmt.Errorf("create session user %s: %w", userID, err)
	}
	s.logger.Info("session user created", "user_id", userID, "email", s.session.Email)
	return nil
}

func (s *UserPreferencesService) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &models.UserPreferences{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &user.Preferences, nil
}

func (s *UserPreferencesService) UpdatePreferences(ctx context.Context, userID string, prefs *models.UserPreferences) (*models.UserPreferences, error) {
	prefs.DisplayName = strings.TrimSpace(prefs.DisplayName)
	prefs.Profession = strings.TrimSpace(prefs.Profession)
	prefs.BotName = strings.TrimSpace(prefs.BotName)
	err := validation.ValidateStruct(prefs,
		validation.Field(&prefs.DisplayName, validation.Length(0, 255)),
		validation.Field(&prefs.Profession, validation.Length(0, 255)),
		validation.Field(&prefs.BotName, validation.Length(0, 255)),
		validation.Field(&prefs.ResponseStyleExample, validation.Length(0, maxPreferenceLength)),
	)
	if err != nil {
		return nil, domain.ValidationFailed(err)
	}

	err = s.repo.UpdatePreferences(ctx, userID, *prefs)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info("creating user row for preferences", "user_id", userID)
		err = s.repo.Insert(ctx, &models.User{
			ID:          userID,
			Name:        s.session.Name,
			Email:       s.session.Email,
			Preferences: *prefs,
		})
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}
