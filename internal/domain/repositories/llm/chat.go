package llm

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

// ChatRepository persists threads and their messages.
type ChatRepository interface {
	// InsertThread creates a thread. Returns *domain.ConflictError when the
	// id already exists.
	InsertThread(ctx context.Context, thread *llm.ChatThread) error

	// SelectThread returns domain.ErrNotFound when absent.
	SelectThread(ctx context.Context, threadID string) (*llm.ChatThread, error)

	// SelectThreadsByUserID lists a user's threads, newest first.
	SelectThreadsByUserID(ctx context.Context, userID string) ([]llm.ChatThread, error)

	// DeleteThread removes a thread and its messages.
	// Returns domain.ErrNotFound when absent.
	DeleteThread(ctx context.Context, threadID string) error

	// UpsertMessage inserts the message or, if its id exists, replaces its
	// role, parts and metadata.
	UpsertMessage(ctx context.Context, msg *llm.ChatMessage) (*llm.ChatMessage, error)

	// SelectMessagesByThreadID returns messages oldest first (empty slice if none).
	SelectMessagesByThreadID(ctx context.Context, threadID string) ([]llm.ChatMessage, error)
}
