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

type PostgresArchiveRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

func NewArchiveRepository(config *RepositoryConfig) repositories.ArchiveRepository {
	return &PostgresArchiveRepository{pool: config.Pool, tables: config.Tables, logger: config.Logger}
}

func (r *PostgresArchiveRepository) Insert(ctx context.Context, a *models.Archive) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, r.tables.Archives)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, a.Name, a.Description, a.UserID).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return MapError(err, "insert archive", "archive", a.Name)
	}
	return nil
}

func (r *PostgresArchiveRepository) SelectByID(ctx context.Context, id string) (*models.Archive, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, user_id, created_at, updated_at
		FROM %s WHERE id = $1
	`, r.tables.Archives)

	var a models.Archive
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Description, &a.UserID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, MapError(err, "select archive", "archive", id)
	}
	return &a, nil
}

func (r *PostgresArchiveRepository) SelectByUserID(ctx context.Context, userID string) ([]models.Archive, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, user_id, created_at, updated_at
		FROM %s WHERE user_id = $1
		ORDER BY updated_at DESC
	`, r.tables.Archives)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	archives := []models.Archive{}
	for rows.Next() {
		var a models.Archive
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.UserID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		archives = append(archives, a)
	}
	return archives, rows.Err()
}

func (r *PostgresArchiveRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Archives)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete archive: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("archive %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresArchiveRepository) AddItem(ctx context.Context, item *models.ArchiveItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (archive_id, item_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, added_at
	`, r.tables.ArchiveItems)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, item.ArchiveID, item.ItemID, item.UserID).Scan(&item.ID, &item.AddedAt)
	if err != nil {
		return MapError(err, "add archive item", "archive item", item.ItemID)
	}
	return nil
}

func (r *PostgresArchiveRepository) SelectItems(ctx context.Context, archiveID string) ([]models.ArchiveItem, error) {
	query := fmt.Sprintf(`
		SELECT id, archive_id, item_id, user_id, added_at
		FROM %s WHERE archive_id = $1
		ORDER BY added_at DESC
	`, r.tables.ArchiveItems)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, archiveID)
	if err != nil {
		return nil, fmt.Errorf("list archive items: %w", err)
	}
	defer rows.Close()

	items := []models.ArchiveItem{}
	for rows.Next() {
		var it models.ArchiveItem
		if err := rows.Scan(&it.ID, &it.ArchiveID, &it.ItemID, &it.UserID, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("scan archive item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
