package handler

import (
	"log/slog"
	"net/http"

	llmSvc "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/handler/sse"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

// ChatHandler serves the streaming chat endpoint.
type ChatHandler struct {
	streamingService llmSvc.StreamingService
	sseConfig        *sse.Config
	logger           *slog.Logger
}

func NewChatHandler(streamingService llmSvc.StreamingService, sseConfig *sse.Config, logger *slog.Logger) *ChatHandler {
	if sseConfig == nil {
		sseConfig = sse.DefaultConfig()
	}
	return &ChatHandler{
		streamingService: streamingService,
		sseConfig:        sseConfig,
		logger:           logger,
	}
}

// Status answers GET /api/ai-chat.
func (h *ChatHandler) Status(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Chat streams a completion.
// POST /api/ai-chat
//
// Errors found before the first byte is written are JSON responses. After
// that they arrive as an error chunk inside the stream.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req llmSvc.ChatRequest
	if err := httputil.ParseJSONOrEmpty(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	stream, err := h.streamingService.Start(r.Context(), &req)
	if err != nil {
		h.logger.Debug("chat request rejected", "thread_id", req.ThreadID, "error", err)
		handleError(w, err)
		return
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		handleError(w, err)
		return
	}

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	stopped := keepAlive.Start(writer, h.logger)

	runErr := stream.Run(r.Context(), writer)

	keepAlive.Stop()
	<-stopped

	if r.Context().Err() != nil {
		h.logger.Info("client disconnected", "thread_id", req.ThreadID, "message_id", stream.MessageID())
		return
	}
	if runErr != nil {
		h.logger.Debug("chat stream ended with error", "message_id", stream.MessageID(), "error", runErr)
	}
	if err := writer.Done(); err != nil {
		h.logger.Debug("write done marker", "error", err)
	}
}
