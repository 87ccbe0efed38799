package llm

// Mention kinds
const (
	MentionDefaultTool = "defaultTool"
	MentionAgent       = "agent"
	MentionWorkflow    = "workflow"
	MentionMcpTool     = "mcpTool"
	MentionMcpServer   = "mcpServer"
)

// Mention is an explicit @-reference in a chat request.
type Mention struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AgentID     string `json:"agentId,omitempty"`
	WorkflowID  string `json:"workflowId,omitempty"`
	ServerID    string `json:"serverId,omitempty"`
	ServerName  string `json:"serverName,omitempty"`
}
