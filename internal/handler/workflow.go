package handler

import (
	"log/slog"
	"net/http"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

// WorkflowHandler exposes stored workflows read-only.
type WorkflowHandler struct {
	service services.WorkflowService
	logger  *slog.Logger
}

func NewWorkflowHandler(service services.WorkflowService, logger *slog.Logger) *WorkflowHandler {
	return &WorkflowHandler{service: service, logger: logger}
}

// List GET /api/workflow
func (h *WorkflowHandler) List(w http.ResponseWriter, r *http.Request) {
	workflows, err := h.service.ListWorkflows(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, workflows)
}

// Structure returns a workflow with its nodes and edges.
// GET /api/workflow/{id}/structure
func (h *WorkflowHandler) Structure(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Workflow ID")
	if !ok {
		return
	}

	structure, err := h.service.GetStructure(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, structure)
}
