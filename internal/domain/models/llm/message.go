package llm

import (
	"strings"
	"time"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one turn in a thread. The id is supplied by the client, so
// saving the same id twice updates the row in place.
type ChatMessage struct {
	ID        string        `json:"id"`
	ThreadID  string        `json:"threadId"`
	Role      string        `json:"role"`
	Parts     []Part        `json:"parts"`
	Metadata  *ChatMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`

	// Content holds the text of legacy rows that predate parts.
	Content string `json:"-"`
}

// UIMessage is a message as the browser sends it. Content is the legacy
// plain-text form some clients still post instead of parts.
type UIMessage struct {
	ID       string        `json:"id"`
	Role     string        `json:"role"`
	Parts    []Part        `json:"parts"`
	Content  string        `json:"content,omitempty"`
	Metadata *ChatMetadata `json:"metadata,omitempty"`
}

// TextContent joins the text parts of a message with newlines, falling back
// to Content.
func (m *UIMessage) TextContent() string {
	var texts []string
	for _, p := range m.Parts {
		if p.Type == PartTypeText && p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	if len(texts) == 0 {
		return m.Content
	}
	return strings.Join(texts, "\n")
}
