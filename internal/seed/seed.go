// Package seed loads demo data for local development: the session user, an
// agent, a workflow, an MCP server listing and a short chat thread.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	loremgen "github.com/bozaro/golorem"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	llmRepo "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/repository/postgres"
)

// Fixed ids keep reseeding idempotent.
const (
	AgentID    = "a0000000-0000-4000-8000-000000000001"
	WorkflowID = "b0000000-0000-4000-8000-000000000001"
	McpID      = "c0000000-0000-4000-8000-000000000001"
	ThreadID   = "d0000000-0000-4000-8000-000000000001"

	nodeInputID        = "b0000000-0000-4000-8000-0000000000a1"
	nodeOutputID       = "b0000000-0000-4000-8000-0000000000a2"
	userMessageID      = "d0000000-0000-4000-8000-0000000000a1"
	assistantMessageID = "d0000000-0000-4000-8000-0000000000a2"
)

// Seeder writes demo rows. Rows with the fixed ids are left alone if they
// already exist.
type Seeder struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	users  repositories.UserRepository
	chats  llmRepo.ChatRepository
	lorem  *loremgen.Lorem
	logger *slog.Logger
}

func NewSeeder(
	pool *pgxpool.Pool,
	tables *postgres.TableNames,
	users repositories.UserRepository,
	chats llmRepo.ChatRepository,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		pool:   pool,
		tables: tables,
		users:  users,
		chats:  chats,
		lorem:  loremgen.New(),
		logger: logger,
	}
}

// Session identifies the user that owns the seeded rows.
type Session struct {
	UserID string
	Name   string
	Email  string
}

// Run seeds everything in dependency order.
func (s *Seeder) Run(ctx context.Context, session Session) error {
	steps := []struct {
		name string
		fn   func(context.Context, Session) error
	}{
		{"user", s.seedUser},
		{"agent", s.seedAgent},
		{"workflow", s.seedWorkflow},
		{"mcp server", s.seedMcpServer},
		{"thread", s.seedThread},
	}
	for _, step := range steps {
		if err := step.fn(ctx, session); err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		s.logger.Info("seeded", "step", step.name)
	}
	return nil
}

func (s *Seeder) seedUser(ctx context.Context, session Session) error {
	return s.users.Insert(ctx, &models.User{
		ID:            session.UserID,
		Name:          session.Name,
		Email:         session.Email,
		EmailVerified: true,
		Preferences: models.UserPreferences{
			DisplayName: session.Name,
			BotName:     "Chatbot",
		},
	})
}

func (s *Seeder) seedAgent(ctx context.Context, session Session) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, description, user_id, instructions, visibility)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, s.tables.Agents)

	instructions := models.AgentInstructions{
		Role:         "data analyst",
		SystemPrompt: "Answer with a table whenever the data has more than two columns.",
		Mentions: []llmModels.Mention{
			{Type: llmModels.MentionDefaultTool, Name: "createTable"},
		},
	}
	instrs, err := json.Marshal(instructions)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, query, AgentID, "Analyst", "Turns questions into tables and charts",
		session.UserID, instrs, models.VisibilityPrivate)
	return err
}

func (s *Seeder) seedWorkflow(ctx context.Context, session Session) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, name, description, is_published, visibility, user_id)
		VALUES ($1, $2, $3, true, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, s.tables.Workflows), WorkflowID, "Summarize URL", "Fetches a page and summarizes it",
		models.VisibilityPublic, session.UserID)
	if err != nil {
		return err
	}

	nodes := []struct{ id, kind, name string }{
		{nodeInputID, "input", "URL"},
		{nodeOutputID, "output", "Summary"},
	}
	for _, n := range nodes {
		_, err = tx.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, workflow_id, kind, name)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, s.tables.WorkflowNodes), n.id, WorkflowID, n.kind, n.name)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (workflow_id, source, target)
		SELECT $1, $2, $3
		WHERE NOT EXISTS (SELECT 1 FROM %s WHERE workflow_id = $1)
	`, s.tables.WorkflowEdges, s.tables.WorkflowEdges), WorkflowID, nodeInputID, nodeOutputID)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Seeder) seedMcpServer(ctx context.Context, _ Session) error {
	config, err := json.Marshal(models.JSONMap{
		"command": "npx",
		"args":    []string{"-y", "@modelcontextprotocol/server-everything"},
	})
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, name, config, enabled)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (id) DO NOTHING
	`, s.tables.McpServers), McpID, "everything", config)
	return err
}

func (s *Seeder) seedThread(ctx context.Context, session Session) error {
	err := s.chats.InsertThread(ctx, &llmModels.ChatThread{
		ID:     ThreadID,
		Title:  "Welcome",
		UserID: session.UserID,
	})
	if errors.Is(err, domain.ErrConflict) {
		return nil
	}
	if err != nil {
		return err
	}

	messages := []llmModels.ChatMessage{
		{
			ID:       userMessageID,
			ThreadID: ThreadID,
			Role:     llmModels.RoleUser,
			Parts:    []llmModels.Part{llmModels.TextPart("Say something in lorem ipsum.")},
		},
		{
			ID:       assistantMessageID,
			ThreadID: ThreadID,
			Role:     llmModels.RoleAssistant,
			Parts:    []llmModels.Part{llmModels.TextPart(s.lorem.Paragraph(2, 4))},
			Metadata: &llmModels.ChatMetadata{
				ChatModel: &llmModels.ChatModel{Provider: "lorem", Model: "lorem-fast"},
			},
		},
	}
	for i := range messages {
		if _, err := s.chats.UpsertMessage(ctx, &messages[i]); err != nil {
			return err
		}
	}
	return nil
}
