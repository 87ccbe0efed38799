package handler

import (
	"log/slog"
	"net/http"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

type ThreadHandler struct {
	service services.ThreadService
	logger  *slog.Logger
}

func NewThreadHandler(service services.ThreadService, logger *slog.Logger) *ThreadHandler {
	return &ThreadHandler{service: service, logger: logger}
}

// List returns the user's threads, newest first.
// GET /api/thread
func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
	threads, err := h.service.ListThreads(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, threads)
}

// Get returns a thread with its messages.
// GET /api/thread/{threadId}
func (h *ThreadHandler) Get(w http.ResponseWriter, r *http.Request) {
	threadID, ok := PathParam(w, r, "threadId", "Thread ID")
	if !ok {
		return
	}

	thread, err := h.service.GetThread(r.Context(), threadID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, thread)
}

// Delete removes a thread and its messages.
// DELETE /api/thread/{threadId}
func (h *ThreadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	threadID, ok := PathParam(w, r, "threadId", "Thread ID")
	if !ok {
		return
	}

	if err := h.service.DeleteThread(r.Context(), threadID, httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}
	respondSuccess(w)
}
