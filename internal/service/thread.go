package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	llmRepo "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/conversation"
)

type ThreadService struct {
	chatRepo llmRepo.ChatRepository
	logger   *slog.Logger
}

func NewThreadService(chatRepo llmRepo.ChatRepository, logger *slog.Logger) *ThreadService {
	return &ThreadService{chatRepo: chatRepo, logger: logger}
}

var _ services.ThreadService = (*ThreadService)(nil)

func (s *ThreadService) GetThread(ctx context.Context, threadID, userID string) (*llmModels.ThreadWithMessages, error) {
	thread, err := s.ownedThread(ctx, threadID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.SelectMessagesByThreadID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	return &llmModels.ThreadWithMessages{
		ChatThread: *thread,
		Messages:   conversation.NormalizeThreadMessages(messages),
	}, nil
}

func (s *ThreadService) ListThreads(ctx context.Context, userID string) ([]llmModels.ChatThread, error) {
	return s.chatRepo.SelectThreadsByUserID(ctx, userID)
}

func (s *ThreadService) DeleteThread(ctx context.Context, threadID, userID string) error {
	if _, err := s.ownedThread(ctx, threadID, userID); err != nil {
		return err
	}
	if err := s.chatRepo.DeleteThread(ctx, threadID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("Thread not found")
		}
		return err
	}

	s.logger.Info("thread deleted", "thread_id", threadID, "user_id", userID)
	return nil
}

func (s *ThreadService) ownedThread(ctx context.Context, threadID, userID string) (*llmModels.ChatThread, error) {
	if threadID == "" {
		return nil, domain.Invalid("Missing threadId")
	}
	thread, err := s.chatRepo.SelectThread(ctx, threadID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Thread not found")
	}
	if err != nil {
		return nil, err
	}
	if thread.UserID != userID {
		return nil, domain.Forbidden("Forbidden")
	}
	return thread, nil
}
