package streaming

import (
	"context"
	"fmt"

	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/conversation"
)

// exchangeRows returns the rows to upsert for a finished response.
//
// A continuation (the incoming message is the assistant's own) is one row
// under the incoming id holding the original parts followed by the new
// ones. Otherwise the incoming message is saved as submitted and the
// assistant reply gets its own row.
func exchangeRows(threadID string, incoming *llmModels.UIMessage, responseID string, responseParts []llmModels.Part, md *llmModels.ChatMetadata) []*llmModels.ChatMessage {
	if incoming.Role == llmModels.RoleAssistant {
		parts := append(append([]llmModels.Part{}, incoming.Parts...), responseParts...)
		if hasMarkdownTable(parts) {
			parts = stripToolParts(parts)
		}
		return []*llmModels.ChatMessage{{
			ID:       incoming.ID,
			ThreadID: threadID,
			Role:     llmModels.RoleAssistant,
			Parts:    conversation.ConvertToSaveParts(parts),
			Metadata: md,
		}}
	}

	if hasMarkdownTable(responseParts) {
		responseParts = stripToolParts(responseParts)
	}

	userParts := incoming.Parts
	if len(userParts) == 0 && incoming.Content != "" {
		userParts = []llmModels.Part{llmModels.TextPart(incoming.Content)}
	}

	return []*llmModels.ChatMessage{
		{
			ID:       incoming.ID,
			ThreadID: threadID,
			Role:     incoming.Role,
			Parts:    conversation.ConvertToSaveParts(userParts),
			Metadata: incoming.Metadata,
		},
		{
			ID:       responseID,
			ThreadID: threadID,
			Role:     llmModels.RoleAssistant,
			Parts:    conversation.ConvertToSaveParts(responseParts),
			Metadata: md,
		},
	}
}

// persist upserts the exchange in one transaction.
func (s *chatStream) persist(ctx context.Context, responseParts []llmModels.Part, md *llmModels.ChatMetadata) error {
	rows := exchangeRows(s.thread.ID, s.req.Message, s.messageID, responseParts, md)
	return s.svc.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		for _, row := range rows {
			if _, err := s.svc.chatRepo.UpsertMessage(txCtx, row); err != nil {
				return fmt.Errorf("save message %s: %w", row.ID, err)
			}
		}
		return nil
	})
}
