package services

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

// ThreadService reads and deletes threads on behalf of their owner.
type ThreadService interface {
	// GetThread returns domain.ErrNotFound when absent and domain.ErrForbidden
	// when userID is not the owner. Messages are normalized for the UI.
	GetThread(ctx context.Context, threadID, userID string) (*llm.ThreadWithMessages, error)

	ListThreads(ctx context.Context, userID string) ([]llm.ChatThread, error)

	// DeleteThread has the same not-found / forbidden rules as GetThread.
	DeleteThread(ctx context.Context, threadID, userID string) error
}
