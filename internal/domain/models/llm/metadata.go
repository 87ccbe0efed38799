package llm

// Tool choice policies sent by the client.
const (
	ToolChoiceAuto   = "auto"
	ToolChoiceNone   = "none"
	ToolChoiceManual = "manual"
)

// ChatModel names a provider and one of its models.
type ChatModel struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// DefaultChatModel is recorded in metadata when the request named none.
var DefaultChatModel = ChatModel{Provider: "openai", Model: "gpt-4o-mini"}

type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens"`
}

// Add accumulates another step's usage.
func (u *Usage) Add(o Usage) {
	u.InputTokens += o.InputTokens
	u.OutputTokens += o.OutputTokens
	u.TotalTokens += o.TotalTokens
}

// ChatMetadata is attached to assistant messages when a stream finishes.
type ChatMetadata struct {
	Usage         *Usage     `json:"usage,omitempty"`
	ChatModel     *ChatModel `json:"chatModel,omitempty"`
	ToolChoice    string     `json:"toolChoice,omitempty"`
	MentionsCount int        `json:"mentionsCount"`
	AgentID       string     `json:"agentId,omitempty"`
}
