package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
)

// RepositoryConfig is shared by every repository constructor.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds the (optionally prefixed) table names.
type TableNames struct {
	Prefix                  string
	Users                   string
	Sessions                string
	Accounts                string
	Verifications           string
	Threads                 string
	Messages                string
	Agents                  string
	Bookmarks               string
	McpServers              string
	McpToolCustomizations   string
	McpServerCustomizations string
	Workflows               string
	WorkflowNodes           string
	WorkflowEdges           string
	Archives                string
	ArchiveItems            string
	McpOAuthSessions        string
	StaticModels            string
}

// NewTableNames prefixes every table name with prefix.
func NewTableNames(prefix string) *TableNames {
	name := func(base string) string { return prefix + base }
	return &TableNames{
		Prefix:                  prefix,
		Users:                   name("users"),
		Sessions:                name("sessions"),
		Accounts:                name("accounts"),
		Verifications:           name("verifications"),
		Threads:                 name("chat_threads"),
		Messages:                name("chat_messages"),
		Agents:                  name("agents"),
		Bookmarks:               name("bookmarks"),
		McpServers:              name("mcp_servers"),
		McpToolCustomizations:   name("mcp_server_tool_custom_instructions"),
		McpServerCustomizations: name("mcp_server_custom_instructions"),
		Workflows:               name("workflows"),
		WorkflowNodes:           name("workflow_nodes"),
		WorkflowEdges:           name("workflow_edges"),
		Archives:                name("archives"),
		ArchiveItems:            name("archive_items"),
		McpOAuthSessions:        name("mcp_oauth_sessions"),
		StaticModels:            name("static_models"),
	}
}

// CreateConnectionPool opens and pings a pgx pool.
//
// Port 6543 is treated as a transaction-mode PgBouncer, which cannot hold
// prepared statements; the pool then uses QueryExecModeCacheDescribe so JSONB
// parameters still encode with type information. An explicit
// default_query_exec_mode in the URL wins.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or pool when there is none.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}
