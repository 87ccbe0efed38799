package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	llmRepo "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/repository/postgres"
)

// PostgresChatRepository stores threads and messages.
type PostgresChatRepository struct {
	pool      *pgxpool.Pool
	tables    *postgres.TableNames
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

func NewChatRepository(config *postgres.RepositoryConfig, txManager repositories.TransactionManager) llmRepo.ChatRepository {
	return &PostgresChatRepository{
		pool:      config.Pool,
		tables:    config.Tables,
		txManager: txManager,
		logger:    config.Logger,
	}
}

func (r *PostgresChatRepository) InsertThread(ctx context.Context, thread *llmModels.ChatThread) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, r.tables.Threads)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, thread.ID, thread.Title, thread.UserID).Scan(&thread.CreatedAt)
	if err != nil {
		return postgres.MapError(err, "insert thread", "thread", thread.ID)
	}
	return nil
}

func (r *PostgresChatRepository) SelectThread(ctx context.Context, threadID string) (*llmModels.ChatThread, error) {
	query := fmt.Sprintf(`
		SELECT id, title, user_id, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Threads)

	var t llmModels.ChatThread
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, threadID).Scan(&t.ID, &t.Title, &t.UserID, &t.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "select thread", "thread", threadID)
	}
	return &t, nil
}

func (r *PostgresChatRepository) SelectThreadsByUserID(ctx context.Context, userID string) ([]llmModels.ChatThread, error) {
	query := fmt.Sprintf(`
		SELECT id, title, user_id, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Threads)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select threads: %w", err)
	}
	defer rows.Close()

	threads := []llmModels.ChatThread{}
	for rows.Next() {
		var t llmModels.ChatThread
		if err := rows.Scan(&t.ID, &t.Title, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate threads: %w", err)
	}
	return threads, nil
}

// DeleteThread removes messages first so the delete also works on
// databases created without the cascading foreign key.
func (r *PostgresChatRepository) DeleteThread(ctx context.Context, threadID string) error {
	return r.txManager.ExecTx(ctx, func(ctx context.Context) error {
		executor := postgres.GetExecutor(ctx, r.pool)

		msgQuery := fmt.Sprintf(`DELETE FROM %s WHERE thread_id = $1`, r.tables.Messages)
		if _, err := executor.Exec(ctx, msgQuery, threadID); err != nil {
			return postgres.MapError(err, "delete thread messages", "thread", threadID)
		}

		threadQuery := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Threads)
		result, err := executor.Exec(ctx, threadQuery, threadID)
		if err != nil {
			return postgres.MapError(err, "delete thread", "thread", threadID)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("thread %s: %w", threadID, domain.ErrNotFound)
		}

		r.logger.Debug("thread deleted", "thread_id", threadID)
		return nil
	})
}

// upsertMessageQuery replaces an existing row in place. created_at is kept,
// so a rewritten message holds its position in the thread.
func upsertMessageQuery(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (id, thread_id, role, parts, metadata)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET role = EXCLUDED.role,
		    parts = EXCLUDED.parts,
		    metadata = EXCLUDED.metadata,
		    thread_id = EXCLUDED.thread_id
		RETURNING created_at
	`, table)
}

func (r *PostgresChatRepository) UpsertMessage(ctx context.Context, msg *llmModels.ChatMessage) (*llmModels.ChatMessage, error) {
	parts, metadata, err := encodeMessage(msg)
	if err != nil {
		return nil, err
	}

	query := upsertMessageQuery(r.tables.Messages)

	saved := *msg
	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, msg.ID, msg.ThreadID, msg.Role, parts, metadata).Scan(&saved.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "upsert message", "message", msg.ID)
	}
	return &saved, nil
}

func (r *PostgresChatRepository) SelectMessagesByThreadID(ctx context.Context, threadID string) ([]llmModels.ChatMessage, error) {
	query := fmt.Sprintf(`
		SELECT id, thread_id, role, parts, metadata, created_at
		FROM %s
		WHERE thread_id = $1
		ORDER BY created_at ASC
	`, r.tables.Messages)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, threadID)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	messages := []llmModels.ChatMessage{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

func scanMessage(row pgx.Row) (*llmModels.ChatMessage, error) {
	var (
		msg      llmModels.ChatMessage
		parts    []byte
		metadata []byte
	)
	if err := row.Scan(&msg.ID, &msg.ThreadID, &msg.Role, &parts, &metadata, &msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	if err := decodeMessage(&msg, parts, metadata); err != nil {
		return nil, err
	}
	return &msg, nil
}

// encodeMessage marshals the JSONB columns. A nil metadata is stored as SQL NULL.
func encodeMessage(msg *llmModels.ChatMessage) ([]byte, []byte, error) {
	p := msg.Parts
	if p == nil {
		p = []llmModels.Part{}
	}
	parts, err := json.Marshal(p)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal parts: %w", err)
	}
	if msg.Metadata == nil {
		return parts, nil, nil
	}
	metadata, err := json.Marshal(msg.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return parts, metadata, nil
}

func decodeMessage(msg *llmModels.ChatMessage, parts, metadata []byte) error {
	msg.Parts = []llmModels.Part{}
	if len(parts) > 0 && parts[0] == '"' {
		// Legacy rows stored the message text as a JSON string.
		if err := json.Unmarshal(parts, &msg.Content); err != nil {
			return fmt.Errorf("unmarshal content of %s: %w", msg.ID, err)
		}
	} else if len(parts) > 0 {
		if err := json.Unmarshal(parts, &msg.Parts); err != nil {
			return fmt.Errorf("unmarshal parts of %s: %w", msg.ID, err)
		}
	}
	if len(metadata) > 0 && string(metadata) != "null" {
		var md llmModels.ChatMetadata
		if err := json.Unmarshal(metadata, &md); err != nil {
			return fmt.Errorf("unmarshal metadata of %s: %w", msg.ID, err)
		}
		msg.Metadata = &md
	}
	return nil
}
