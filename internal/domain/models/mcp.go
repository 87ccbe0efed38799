package models

import "time"

// McpServer is a configured external tool provider. Only its configuration
// is stored; tool execution happens elsewhere.
type McpServer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Config    JSONMap   `json:"config"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// McpServerCustomization is a per-user prompt attached to a whole server.
type McpServerCustomization struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	McpServerID string `json:"mcpServerId"`
	ServerName  string `json:"serverName"`
	Prompt      string `json:"prompt"`
}

// McpToolCustomization is a per-user prompt attached to one tool.
type McpToolCustomization struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	ToolName    string `json:"toolName"`
	McpServerID string `json:"mcpServerId"`
	Prompt      string `json:"prompt"`
}
