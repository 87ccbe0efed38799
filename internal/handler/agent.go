package handler

import (
	"log/slog"
	"net/http"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

type AgentHandler struct {
	service services.AgentService
	logger  *slog.Logger
}

func NewAgentHandler(service services.AgentService, logger *slog.Logger) *AgentHandler {
	return &AgentHandler{service: service, logger: logger}
}

// List returns the user's agents and every shared one.
// GET /api/agent
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.service.ListAgents(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, agents)
}

// Create POST /api/agent
func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.AgentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	agent, err := h.service.CreateAgent(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, agent)
}

// Get GET /api/agent/{id}
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Agent ID")
	if !ok {
		return
	}

	agent, err := h.service.GetAgent(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, agent)
}

// Update PUT /api/agent/{id}
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Agent ID")
	if !ok {
		return
	}
	var req services.AgentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	agent, err := h.service.UpdateAgent(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, agent)
}

// Delete DELETE /api/agent/{id}
func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Agent ID")
	if !ok {
		return
	}

	if err := h.service.DeleteAgent(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}
