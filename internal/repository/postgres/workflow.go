package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
)

const workflowColumns = "id, version, name, icon, description, is_published, visibility, user_id, created_at, updated_at"

type PostgresWorkflowRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

func NewWorkflowRepository(config *RepositoryConfig) repositories.WorkflowRepository {
	return &PostgresWorkflowRepository{pool: config.Pool, tables: config.Tables, logger: config.Logger}
}

func scanWorkflow(row interface{ Scan(...any) error }) (*models.Workflow, error) {
	var (
		w    models.Workflow
		icon []byte
	)
	err := row.Scan(&w.ID, &w.Version, &w.Name, &icon, &w.Description, &w.IsPublished, &w.Visibility, &w.UserID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(icon, &w.Icon); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PostgresWorkflowRepository) SelectByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, workflowColumns, r.tables.Workflows)

	executor := GetExecutor(ctx, r.pool)
	w, err := scanWorkflow(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, MapError(err, "select workflow", "workflow", id)
	}
	return w, nil
}

func (r *PostgresWorkflowRepository) SelectByUserID(ctx context.Context, userID string) ([]models.Workflow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1 OR (is_published AND visibility <> 'private')
		ORDER BY updated_at DESC
	`, workflowColumns, r.tables.Workflows)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	workflows := []models.Workflow{}
	for rows.Next() {
		w, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		workflows = append(workflows, *w)
	}
	return workflows, rows.Err()
}

func (r *PostgresWorkflowRepository) SelectStructure(ctx context.Context, id string) (*models.WorkflowStructure, error) {
	w, err := r.SelectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	structure := &models.WorkflowStructure{Workflow: *w}

	executor := GetExecutor(ctx, r.pool)

	nodeQuery := fmt.Sprintf(`
		SELECT id, version, workflow_id, kind, name, description, ui_config, node_config, created_at, updated_at
		FROM %s WHERE workflow_id = $1
		ORDER BY created_at ASC
	`, r.tables.WorkflowNodes)
	rows, err := executor.Query(ctx, nodeQuery, id)
	if err != nil {
		return nil, fmt.Errorf("select workflow nodes: %w", err)
	}
	structure.Nodes = []models.WorkflowNode{}
	for rows.Next() {
		var (
			n              models.WorkflowNode
			uiCfg, nodeCfg []byte
		)
		if err := rows.Scan(&n.ID, &n.Version, &n.WorkflowID, &n.Kind, &n.Name, &n.Description, &uiCfg, &nodeCfg, &n.CreatedAt, &n.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan workflow node: %w", err)
		}
		if err := unmarshalJSON(uiCfg, &n.UIConfig); err != nil {
			rows.Close()
			return nil, err
		}
		if err := unmarshalJSON(nodeCfg, &n.NodeConfig); err != nil {
			rows.Close()
			return nil, err
		}
		structure.Nodes = append(structure.Nodes, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflow nodes: %w", err)
	}

	edgeQuery := fmt.Sprintf(`
		SELECT id, version, workflow_id, source, target, ui_config, created_at
		FROM %s WHERE workflow_id = $1
	`, r.tables.WorkflowEdges)
	rows, err = executor.Query(ctx, edgeQuery, id)
	if err != nil {
		return nil, fmt.Errorf("select workflow edges: %w", err)
	}
	defer rows.Close()
	structure.Edges = []models.WorkflowEdge{}
	for rows.Next() {
		var (
			e     models.WorkflowEdge
			uiCfg []byte
		)
		if err := rows.Scan(&e.ID, &e.Version, &e.WorkflowID, &e.Source, &e.Target, &uiCfg, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan workflow edge: %w", err)
		}
		if err := unmarshalJSON(uiCfg, &e.UIConfig); err != nil {
			return nil, err
		}
		structure.Edges = append(structure.Edges, e)
	}
	return structure, rows.Err()
}
