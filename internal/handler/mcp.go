package handler

import (
	"log/slog"
	"net/http"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

// McpHandler lists configured MCP servers. Tools are not executed here.
type McpHandler struct {
	service services.McpService
	logger  *slog.Logger
}

func NewMcpHandler(service services.McpService, logger *slog.Logger) *McpHandler {
	return &McpHandler{service: service, logger: logger}
}

// List GET /api/mcp
func (h *McpHandler) List(w http.ResponseWriter, r *http.Request) {
	servers, err := h.service.ListServers(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, servers)
}
