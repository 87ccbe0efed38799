package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

var schemaTemplate = template.Must(template.New("schema").Parse(schemaSQL))

// RenderSchema returns the DDL with table names substituted.
func RenderSchema(tables *TableNames) (string, error) {
	var b strings.Builder
	if err := schemaTemplate.Execute(&b, tables); err != nil {
		return "", fmt.Errorf("render schema: %w", err)
	}
	return b.String(), nil
}

// ApplySchema creates every table and index that does not exist yet.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	ddl, err := RenderSchema(tables)
	if err != nil {
		return err
	}
	// Multi-statement Exec without arguments uses the simple protocol.
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// DropOrder lists tables children first, for DROP TABLE.
func (t *TableNames) DropOrder() []string {
	return []string{
		t.StaticModels, t.McpOAuthSessions, t.ArchiveItems, t.Archives,
		t.WorkflowEdges, t.WorkflowNodes, t.Workflows,
		t.McpServerCustomizations, t.McpToolCustomizations, t.McpServers,
		t.Bookmarks, t.Agents, t.Messages, t.Threads,
		t.Verifications, t.Accounts, t.Sessions, t.Users,
	}
}

// DropSchema drops every table in DropOrder.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, name := range tables.DropOrder() {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", name)); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return nil
}
