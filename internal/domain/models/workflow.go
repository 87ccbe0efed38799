package models

import "time"

type Workflow struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	Name        string    `json:"name"`
	Icon        JSONMap   `json:"icon,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsPublished bool      `json:"isPublished"`
	Visibility  string    `json:"visibility"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type WorkflowNode struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	WorkflowID  string    `json:"workflowId"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	UIConfig    JSONMap   `json:"uiConfig"`
	NodeConfig  JSONMap   `json:"nodeConfig"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type WorkflowEdge struct {
	ID         string    `json:"id"`
	Version    string    `json:"version"`
	WorkflowID string    `json:"workflowId"`
	Source     string    `json:"source"`
	Target     string    `json:"target"`
	UIConfig   JSONMap   `json:"uiConfig"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WorkflowStructure is a workflow with its graph.
type WorkflowStructure struct {
	Workflow
	Nodes []WorkflowNode `json:"nodes"`
	Edges []WorkflowEdge `json:"edges"`
}
