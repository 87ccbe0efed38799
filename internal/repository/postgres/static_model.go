package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
)

const staticModelColumns = "id, name, api_key, user_id, created_at, updated_at"

type PostgresStaticModelRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

func NewStaticModelRepository(config *RepositoryConfig) repositories.StaticModelRepository {
	return &PostgresStaticModelRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanStaticModel(row interface{ Scan(...any) error }) (*models.StaticModel, error) {
	var m models.StaticModel
	err := row.Scan(&m.ID, &m.Name, &m.APIKey, &m.UserID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresStaticModelRepository) GetByName(ctx context.Context, name, userID string) (*models.StaticModel, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE name = $1 AND user_id = $2
	`, staticModelColumns, r.tables.StaticModels)

	executor := GetExecutor(ctx, r.pool)
	m, err := scanStaticModel(executor.QueryRow(ctx, query, name, userID))
	if err != nil {
		return nil, MapError(err, "get static model", "static model", name)
	}
	return m, nil
}

func (r *PostgresStaticModelRepository) Insert(ctx context.Context, m *models.StaticModel) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, api_key, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, r.tables.StaticModels)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, m.Name, m.APIKey, m.UserID).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return MapError(err, "insert static model", "static model", m.Name)
	}
	return nil
}

// Upsert looks the row up first and only then inserts. Two concurrent first
// saves collide on UNIQUE (user_id, name); the loser retries as an update.
func (r *PostgresStaticModelRepository) Upsert(ctx context.Context, name, apiKey, userID string) (*models.StaticModel, error) {
	existing, err := r.GetByName(ctx, name, userID)
	switch {
	case err == nil:
		return r.Update(ctx, existing.ID, models.StaticModelUpdate{APIKey: &apiKey})
	case !isNotFound(err):
		return nil, err
	}

	m := &models.StaticModel{Name: name, APIKey: apiKey, UserID: userID}
	err = r.Insert(ctx, m)
	if err == nil {
		return m, nil
	}
	if !isConflict(err) {
		return nil, err
	}

	r.logger.Debug("static model insert raced, updating instead", "name", name, "user_id", userID)
	existing, err = r.GetByName(ctx, name, userID)
	if err != nil {
		return nil, err
	}
	return r.Update(ctx, existing.ID, models.StaticModelUpdate{APIKey: &apiKey})
}

func (r *PostgresStaticModelRepository) FindByUser(ctx context.Context, userID string) ([]models.StaticModel, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY name ASC
	`, staticModelColumns, r.tables.StaticModels)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list static models: %w", err)
	}
	defer rows.Close()

	result := []models.StaticModel{}
	for rows.Next() {
		m, err := scanStaticModel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan static model: %w", err)
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}

func (r *PostgresStaticModelRepository) FindByID(ctx context.Context, id string) (*models.StaticModel, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, staticModelColumns, r.tables.StaticModels)

	executor := GetExecutor(ctx, r.pool)
	m, err := scanStaticModel(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, MapError(err, "find static model", "static model", id)
	}
	return m, nil
}

func (r *PostgresStaticModelRepository) Update(ctx context.Context, id string, upd models.StaticModelUpdate) (*models.StaticModel, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	if upd.Name != nil {
		args = append(args, *upd.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.APIKey != nil {
		args = append(args, *upd.APIKey)
		sets = append(sets, fmt.Sprintf("api_key = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s
		WHERE id = $1
		RETURNING %s
	`, r.tables.StaticModels, strings.Join(sets, ", "), staticModelColumns)

	executor := GetExecutor(ctx, r.pool)
	m, err := scanStaticModel(executor.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, MapError(err, "update static model", "static model", id)
	}
	return m, nil
}

func (r *PostgresStaticModelRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.StaticModels)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return MapError(err, "delete static model", "static model", id)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("static model %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
