package models

import (
	"time"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

// Visibility of user-owned agents and workflows.
const (
	VisibilityPublic   = "public"
	VisibilityPrivate  = "private"
	VisibilityReadonly = "readonly"
)

type Agent struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  *string           `json:"description,omitempty"`
	Icon         JSONMap           `json:"icon,omitempty"`
	UserID       string            `json:"userId"`
	Instructions AgentInstructions `json:"instructions"`
	Visibility   string            `json:"visibility"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// AgentInstructions is stored as JSONB on the agent row.
type AgentInstructions struct {
	Role         string        `json:"role,omitempty"`
	SystemPrompt string        `json:"systemPrompt,omitempty"`
	Mentions     []llm.Mention `json:"mentions,omitempty"`
}
