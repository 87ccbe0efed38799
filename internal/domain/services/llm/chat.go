package llm

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

// ChatRequest is the POST /api/ai-chat body.
type ChatRequest struct {
	ThreadID   string         `json:"id"`
	Message    *llm.UIMessage `json:"message"`
	ChatModel  *llm.ChatModel `json:"chatModel,omitempty"`
	ToolChoice string         `json:"toolChoice,omitempty"`
	// AllowedAppDefaultToolkit: nil allows every toolkit, empty allows none.
	AllowedAppDefaultToolkit []string                      `json:"allowedAppDefaultToolkit"`
	AllowedMcpServers        map[string]McpServerSelection `json:"allowedMcpServers,omitempty"`
	Mentions                 []llm.Mention                 `json:"mentions,omitempty"`
	APIKey                   string                        `json:"apiKey,omitempty"`
	UserID                   string                        `json:"-"`
}

// McpServerSelection lists the tools allowed from one MCP server.
type McpServerSelection struct {
	Tools []string `json:"tools"`
}

// ChunkWriter receives UI message stream chunks in order.
type ChunkWriter interface {
	WriteChunk(chunk llm.Chunk) error
}

// ChatStream is a prepared completion. Run streams it into w and persists
// the exchange when the model finishes normally.
type ChatStream interface {
	MessageID() string
	Run(ctx context.Context, w ChunkWriter) error
}

// StreamingService turns a chat request into a ChatStream.
type StreamingService interface {
	// Start validates the request, resolves the model, key, thread, tools and
	// system prompt. Errors here are reported before any bytes are streamed.
	Start(ctx context.Context, req *ChatRequest) (ChatStream, error)
}
