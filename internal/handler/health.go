package handler

import (
	"net/http"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

type HealthHandler struct {
	service services.HealthService
}

func NewHealthHandler(service services.HealthService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Check answers 200 when the database is reachable, else 500.
// GET /api/health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	report := h.service.Check(r.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusInternalServerError
	}
	httputil.RespondJSON(w, status, report)
}
