package handler

import (
	"log/slog"
	"net/http"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

// StaticModelHandler manages per-user API keys stored by model name.
type StaticModelHandler struct {
	service services.StaticModelService
	logger  *slog.Logger
}

func NewStaticModelHandler(service services.StaticModelService, logger *slog.Logger) *StaticModelHandler {
	return &StaticModelHandler{service: service, logger: logger}
}

// Get looks a key up by model name.
// GET /api/static-model?name=
func (h *StaticModelHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetByName(r.Context(), r.URL.Query().Get("name"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, m)
}

// List returns the user's stored keys.
// GET /api/static-model/list
func (h *StaticModelHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, list)
}

// Save upserts a key by name.
// POST /api/static-model
func (h *StaticModelHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req services.SaveStaticModelRequest
	if err := httputil.ParseJSONOrEmpty(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	m, err := h.service.Save(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, m)
}

// Update changes the name and/or key of an owned record.
// PUT /api/static-model
func (h *StaticModelHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateStaticModelRequest
	if err := httputil.ParseJSONOrEmpty(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	m, err := h.service.Update(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, m)
}

// Delete removes an owned record.
// DELETE /api/static-model
func (h *StaticModelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := httputil.ParseJSONOrEmpty(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Delete(r.Context(), req.ID, httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}
