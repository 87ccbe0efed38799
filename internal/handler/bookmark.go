package handler

import (
	"log/slog"
	"net/http"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

type BookmarkHandler struct {
	service services.BookmarkService
	logger  *slog.Logger
}

func NewBookmarkHandler(service services.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{service: service, logger: logger}
}

// Toggle bookmarks an item, or removes the bookmark if it exists.
// POST /api/bookmark
func (h *BookmarkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req services.ToggleBookmarkRequest
	if err := httputil.ParseJSONOrEmpty(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	bookmarked, err := h.service.Toggle(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked})
}

// List GET /api/bookmark
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.service.List(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, bookmarks)
}
