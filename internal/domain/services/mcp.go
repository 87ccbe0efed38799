package services

import (
	"context"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
)

type McpService interface {
	ListServers(ctx context.Context) ([]models.McpServer, error)
}
