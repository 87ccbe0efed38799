package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
)

type PostgresMcpRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

func NewMcpRepository(config *RepositoryConfig) repositories.McpRepository {
	return &PostgresMcpRepository{pool: config.Pool, tables: config.Tables, logger: config.Logger}
}

func scanMcpServer(row interface{ Scan(...any) error }) (*models.McpServer, error) {
	var (
		s   models.McpServer
		cfg []byte
	)
	if err := row.Scan(&s.ID, &s.Name, &cfg, &s.Enabled, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(cfg, &s.Config); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresMcpRepository) SelectAll(ctx context.Context) ([]models.McpServer, error) {
	query := fmt.Sprintf(`
		SELECT id, name, config, enabled, created_at, updated_at
		FROM %s ORDER BY name ASC
	`, r.tables.McpServers)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list mcp servers: %w", err)
	}
	defer rows.Close()

	servers := []models.McpServer{}
	for rows.Next() {
		s, err := scanMcpServer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mcp server: %w", err)
		}
		servers = append(servers, *s)
	}
	return servers, rows.Err()
}

func (r *PostgresMcpRepository) SelectByID(ctx context.Context, id string) (*models.McpServer, error) {
	query := fmt.Sprintf(`
		SELECT id, name, config, enabled, created_at, updated_at
		FROM %s WHERE id = $1
	`, r.tables.McpServers)

	executor := GetExecutor(ctx, r.pool)
	s, err := scanMcpServer(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, MapError(err, "select mcp server", "mcp server", id)
	}
	return s, nil
}

func (r *PostgresMcpRepository) SelectServerCustomizations(ctx context.Context, userID string, serverIDs []string) ([]models.McpServerCustomization, error) {
	result := []models.McpServerCustomization{}
	if len(serverIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.user_id, c.mcp_server_id, s.name, COALESCE(c.prompt, '')
		FROM %s c
		JOIN %s s ON s.id = c.mcp_server_id
		WHERE c.user_id = $1 AND c.mcp_server_id = ANY($2::uuid[])
	`, r.tables.McpServerCustomizations, r.tables.McpServers)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, serverIDs)
	if err != nil {
		return nil, fmt.Errorf("select mcp server customizations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.McpServerCustomization
		if err := rows.Scan(&c.ID, &c.UserID, &c.McpServerID, &c.ServerName, &c.Prompt); err != nil {
			return nil, fmt.Errorf("scan mcp server customization: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *PostgresMcpRepository) SelectToolCustomizations(ctx context.Context, userID string, serverIDs []string) ([]models.McpToolCustomization, error) {
	result := []models.McpToolCustomization{}
	if len(serverIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, tool_name, mcp_server_id, COALESCE(prompt, '')
		FROM %s
		WHERE user_id = $1 AND mcp_server_id = ANY($2::uuid[])
	`, r.tables.McpToolCustomizations)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, serverIDs)
	if err != nil {
		return nil, fmt.Errorf("select mcp tool customizations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.McpToolCustomization
		if err := rows.Scan(&c.ID, &c.UserID, &c.ToolName, &c.McpServerID, &c.Prompt); err != nil {
			return nil, fmt.Errorf("scan mcp tool customization: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
