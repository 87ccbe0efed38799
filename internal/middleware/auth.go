package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/auth"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
)

// Auth attaches the session user id to every request.
//
// With a nil verifier every request runs as sessionUserID (the mocked
// session). With a verifier, a valid "Authorization: Bearer <jwt>" is
// required and its subject becomes the user id. OPTIONS always passes.
func Auth(verifier auth.JWTVerifier, sessionUserID string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if verifier == nil {
				next.ServeHTTP(w, httputil.WithUserID(r, sessionUserID))
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("auth rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
