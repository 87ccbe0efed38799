package handler

import (
	"log/slog"
	"net/http"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

type ArchiveHandler struct {
	service services.ArchiveService
	logger  *slog.Logger
}

func NewArchiveHandler(service services.ArchiveService, logger *slog.Logger) *ArchiveHandler {
	return &ArchiveHandler{service: service, logger: logger}
}

// List GET /api/archive
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	archives, err := h.service.ListArchives(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, archives)
}

// Create POST /api/archive
func (h *ArchiveHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateArchiveRequest
	if err := httputil.ParseJSONOrEmpty(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	archive, err := h.service.CreateArchive(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, archive)
}

// Delete DELETE /api/archive/{id}
func (h *ArchiveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Archive ID")
	if !ok {
		return
	}

	if err := h.service.DeleteArchive(r.Context(), id, httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}

// Items GET /api/archive/{id}/items
func (h *ArchiveHandler) Items(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Archive ID")
	if !ok {
		return
	}

	items, err := h.service.ListItems(r.Context(), id, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, items)
}

// AddItem files a thread into the archive.
// POST /api/archive/{id}/items
func (h *ArchiveHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Archive ID")
	if !ok {
		return
	}
	var req struct {
		ItemID string `json:"itemId"`
	}
	if err := httputil.ParseJSONOrEmpty(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.service.AddItem(r.Context(), id, req.ItemID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, item)
}
