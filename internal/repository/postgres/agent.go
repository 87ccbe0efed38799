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

const agentColumns = "id, name, description, icon, user_id, instructions, visibility, created_at, updated_at"

type PostgresAgentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

func NewAgentRepository(config *RepositoryConfig) repositories.AgentRepository {
	return &PostgresAgentRepository{pool: config.Pool, tables: config.Tables, logger: config.Logger}
}

func scanAgent(row interface{ Scan(...any) error }) (*models.Agent, error) {
	var (
		a            models.Agent
		icon, instrs []byte
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &icon, &a.UserID, &instrs, &a.Visibility, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(icon, &a.Icon); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(instrs, &a.Instructions); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAgentRepository) Insert(ctx context.Context, a *models.Agent) error {
	icon, err := marshalJSON(a.Icon)
	if err != nil {
		return err
	}
	instrs, err := marshalJSON(a.Instructions)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, icon, user_id, instructions, visibility)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Agents)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, a.Name, a.Description, icon, a.UserID, instrs, a.Visibility).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return MapError(err, "insert agent", "agent", a.Name)
	}
	return nil
}

func (r *PostgresAgentRepository) SelectByID(ctx context.Context, id string) (*models.Agent, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, agentColumns, r.tables.Agents)

	executor := GetExecutor(ctx, r.pool)
	a, err := scanAgent(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, MapError(err, "select agent", "agent", id)
	}
	return a, nil
}

func (r *PostgresAgentRepository) SelectByUserID(ctx context.Context, userID string) ([]models.Agent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 OR visibility IN ('public', 'readonly')
		ORDER BY updated_at DESC
	`, agentColumns, r.tables.Agents)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	agents := []models.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, *a)
	}
	return agents, rows.Err()
}

func (r *PostgresAgentRepository) Update(ctx context.Context, a *models.Agent) error {
	icon, err := marshalJSON(a.Icon)
	if err != nil {
		return err
	}
	instrs, err := marshalJSON(a.Instructions)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, description = $3, icon = $4, instructions = $5, visibility = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.Agents)

	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, a.ID, a.Name, a.Description, icon, instrs, a.Visibility).Scan(&a.UpdatedAt)
	if err != nil {
		return MapError(err, "update agent", "agent", a.ID)
	}
	return nil
}

func (r *PostgresAgentRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Agents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("agent %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
