package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
)

type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{pool: config.Pool, tables: config.Tables, logger: config.Logger}
}

func (r *PostgresUserRepository) selectOne(ctx context.Context, where string, arg string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, email_verified, image, preferences, created_at, updated_at
		FROM %s
		WHERE %s = $1
	`, r.tables.Users, where)

	var (
		u     models.User
		prefs []byte
	)
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.EmailVerified, &u.Image, &prefs, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err, "get user", "user", arg)
	}
	if err := unmarshalJSON(prefs, &u.Preferences); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.selectOne(ctx, "id", id)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.selectOne(ctx, "email", email)
}

func (r *PostgresUserRepository) Insert(ctx context.Context, u *models.User) error {
	prefs, err := marshalJSON(u.Preferences)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, email_verified, image, preferences)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6::jsonb, '{}'::jsonb))
		ON CONFLICT (id) DO NOTHING
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, u.ID, u.Name, u.Email, u.EmailVerified, u.Image, prefs); err != nil {
		return MapError(err, "insert user", "user", u.Email)
	}
	return nil
}

func (r *PostgresUserRepository) UpdatePreferences(ctx context.Context, userID string, prefs models.UserPreferences) error {
	data, err := marshalJSON(prefs)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s SET preferences = $2, updated_at = now()
		WHERE id = $1
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID, data)
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}
