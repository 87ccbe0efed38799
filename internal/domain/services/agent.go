package services

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type AgentService interface {
	CreateAgent(ctx context.Context, req *AgentRequest) (*models.Agent, error)
	// GetAgent returns domain.ErrForbidden for another user's private agent.
	GetAgent(ctx context.Context, id, userID string) (*models.Agent, error)
	ListAgents(ctx context.Context, userID string) ([]models.Agent, error)
	// UpdateAgent allows the owner, or anyone when the agent is public.
	UpdateAgent(ctx context.Context, id string, req *AgentRequest) (*models.Agent, error)
	DeleteAgent(ctx context.Context, id, userID string) error
}

type AgentRequest struct {
	Name         string                   `json:"name"`
	Description  *string                  `json:"description,omitempty"`
	Icon         models.JSONMap           `json:"icon,omitempty"`
	Instructions models.AgentInstructions `json:"instructions"`
	Visibility   string                   `json:"visibility,omitempty"`
	UserID       string                   `json:"-"`
}
