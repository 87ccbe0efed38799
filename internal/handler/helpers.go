package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Errors built with
// domain.NotFound and friends carry their client-facing message.
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError
	var domainErr *domain.Error

	message := err.Error()
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, message)
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, message)
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, message)
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, message)
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, message)
	}
}

// PathParam returns the named path value, answering 400 when it is blank.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := strings.TrimSpace(r.PathValue(name))
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}

type successResponse struct {
	Success bool `json:"success"`
}

func respondSuccess(w http.ResponseWriter) {
	httputil.RespondJSON(w, http.StatusOK, successResponse{Success: true})
}
