package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
)

type PostgresBookmarkRepository struct {
	pool      *pgxpool.Pool
	tables    *TableNames
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

func NewBookmarkRepository(config *RepositoryConfig, txManager repositories.TransactionManager) repositories.BookmarkRepository {
	return &PostgresBookmarkRepository{pool: config.Pool, tables: config.Tables, txManager: txManager, logger: config.Logger}
}

func (r *PostgresBookmarkRepository) Toggle(ctx context.Context, userID, itemID, itemType string) (bool, error) {
	var bookmarked bool
	err := r.txManager.ExecTx(ctx, func(ctx context.Context) error {
		executor := GetExecutor(ctx, r.pool)

		del := fmt.Sprintf(`
			DELETE FROM %s
			WHERE user_id = $1 AND item_id = $2 AND item_type = $3
		`, r.tables.Bookmarks)
		result, err := executor.Exec(ctx, del, userID, itemID, itemType)
		if err != nil {
			return fmt.Errorf("delete bookmark: %w", err)
		}
		if result.RowsAffected() > 0 {
			return nil
		}

		ins := fmt.Sprintf(`
			INSERT INTO %s (user_id, item_id, item_type)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, item_id, item_type) DO NOTHING
		`, r.tables.Bookmarks)
		if _, err := executor.Exec(ctx, ins, userID, itemID, itemType); err != nil {
			return MapError(err, "insert bookmark", "bookmark", itemID)
		}
		bookmarked = true
		return nil
	})
	return bookmarked, err
}

func (r *PostgresBookmarkRepository) SelectByUserID(ctx context.Context, userID string) ([]models.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, item_id, item_type, created_at
		FROM %s WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Bookmarks)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := []models.Bookmark{}
	for rows.Next() {
		var b models.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.ItemID, &b.ItemType, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}
