package service

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
)

// McpService lists configured MCP servers. Connecting to them is out of
// scope; the chat path only reads their per-user prompt customizations.
type McpService struct {
	repo repositories.McpRepository
}

func NewMcpService(repo repositories.McpRepository) *McpService {
	return &McpService{repo: repo}
}

var _ services.McpService = (*McpService)(nil)

func (s *McpService) ListServers(ctx context.Context) ([]models.McpServer, error) {
	return s.repo.SelectAll(ctx)
}
