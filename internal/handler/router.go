package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/rs/cors"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/auth"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/metrics"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/middleware"
)

// Handlers groups every HTTP handler the router serves. Nil handlers are
// not routed.
type Handlers struct {
	Chat        *ChatHandler
	StaticModel *StaticModelHandler
	Thread      *ThreadHandler
	Agent       *AgentHandler
	Workflow    *WorkflowHandler
	Bookmark    *BookmarkHandler
	Archive     *ArchiveHandler
	Mcp         *McpHandler
	Health      *HealthHandler
	Models      *ModelsHandler
	Preferences *UserPreferencesHandler
}

type RouterConfig struct {
	// CORSOrigins of ["*"] (or empty) stamps "Access-Control-Allow-Origin: *"
	// on every response. Any other list is enforced by rs/cors.
	CORSOrigins   []string
	Verifier      auth.JWTVerifier // nil runs every request as SessionUserID
	SessionUserID string
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

type router struct {
	mux      *http.ServeMux
	origin   string
	auth     func(http.Handler) http.Handler
	recovery func(http.Handler) http.Handler
	metrics  *metrics.Metrics
}

// NewRouter registers every route. Each route's chain is
// CORS headers -> metrics -> recovery -> auth -> handler, so error, panic
// and 401 responses all carry the CORS headers.
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	wildcard := len(cfg.CORSOrigins) == 0 || slices.Contains(cfg.CORSOrigins, "*")

	rt := &router{
		mux:      http.NewServeMux(),
		auth:     middleware.Auth(cfg.Verifier, cfg.SessionUserID, cfg.Logger),
		recovery: middleware.Recovery(cfg.Logger),
		metrics:  cfg.Metrics,
	}
	if wildcard {
		rt.origin = "*"
	}

	chat := rt.group(httputil.MethodsChat)
	staticModel := rt.group(httputil.MethodsStaticModel)
	thread := rt.group(httputil.MethodsThread)
	health := rt.group(httputil.MethodsHealth)
	def := rt.group(httputil.MethodsDefault)

	if h.Chat != nil {
		rt.handle(chat, "/api/ai-chat", routes{
			http.MethodGet:  h.Chat.Status,
			http.MethodPost: h.Chat.Chat,
		})
	}
	if h.StaticModel != nil {
		rt.handle(staticModel, "/api/static-model", routes{
			http.MethodGet:    h.StaticModel.Get,
			http.MethodPost:   h.StaticModel.Save,
			http.MethodPut:    h.StaticModel.Update,
			http.MethodDelete: h.StaticModel.Delete,
		})
		rt.handle(staticModel, "/api/static-model/list", routes{http.MethodGet: h.StaticModel.List})
	}
	if h.Thread != nil {
		rt.handle(thread, "/api/thread", routes{http.MethodGet: h.Thread.List})
		rt.handle(thread, "/api/thread/{threadId}", routes{
			http.MethodGet:    h.Thread.Get,
			http.MethodDelete: h.Thread.Delete,
		})
	}
	if h.Health != nil {
		rt.handlePublic(health, "/api/health", routes{http.MethodGet: h.Health.Check})
	}
	if h.Agent != nil {
		rt.handle(def, "/api/agent", routes{
			http.MethodGet:  h.Agent.List,
			http.MethodPost: h.Agent.Create,
		})
		rt.handle(def, "/api/agent/{id}", routes{
			http.MethodGet:    h.Agent.Get,
			http.MethodPut:    h.Agent.Update,
			http.MethodDelete: h.Agent.Delete,
		})
	}
	if h.Workflow != nil {
		rt.handle(def, "/api/workflow", routes{http.MethodGet: h.Workflow.List})
		rt.handle(def, "/api/workflow/{id}/structure", routes{http.MethodGet: h.Workflow.Structure})
	}
	if h.Mcp != nil {
		rt.handle(def, "/api/mcp", routes{http.MethodGet: h.Mcp.List})
	}
	if h.Bookmark != nil {
		rt.handle(def, "/api/bookmark", routes{
			http.MethodGet:  h.Bookmark.List,
			http.MethodPost: h.Bookmark.Toggle,
		})
	}
	if h.Archive != nil {
		rt.handle(def, "/api/archive", routes{
			http.MethodGet:  h.Archive.List,
			http.MethodPost: h.Archive.Create,
		})
		rt.handle(def, "/api/archive/{id}", routes{http.MethodDelete: h.Archive.Delete})
		rt.handle(def, "/api/archive/{id}/items", routes{
			http.MethodGet:  h.Archive.Items,
			http.MethodPost: h.Archive.AddItem,
		})
	}
	if h.Models != nil {
		rt.handle(def, "/api/models", routes{http.MethodGet: h.Models.ListModels})
	}
	if h.Preferences != nil {
		rt.handle(def, "/api/user/preferences", routes{
			http.MethodGet: h.Preferences.GetPreferences,
			http.MethodPut: h.Preferences.UpdatePreferences,
		})
	}
	if cfg.Metrics != nil {
		rt.mux.Handle("GET /metrics", def.Middleware(cfg.Metrics.Handler()))
	}

	// Unmatched paths still get CORS headers on their 404.
	rt.mux.Handle("/", def.Middleware(http.NotFoundHandler()))

	if wildcard {
		return rt.mux
	}
	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(rt.mux)
}

type routes map[string]http.HandlerFunc

func (rt *router) group(methods string) httputil.CORSHeaders {
	return httputil.CORSHeaders{AllowOrigin: rt.origin, Methods: methods}
}

func (rt *router) handle(c httputil.CORSHeaders, path string, rs routes) {
	rt.register(c, path, rs, true)
}

// handlePublic skips auth, for health checks.
func (rt *router) handlePublic(c httputil.CORSHeaders, path string, rs routes) {
	rt.register(c, path, rs, false)
}

func (rt *router) register(c httputil.CORSHeaders, path string, rs routes, withAuth bool) {
	for method, fn := range rs {
		var h http.Handler = fn
		if withAuth {
			h = rt.auth(h)
		}
		h = rt.recovery(h)
		h = middleware.Instrument(rt.metrics, path, h)
		rt.mux.Handle(method+" "+path, c.Middleware(h))
	}
	// The CORS middleware answers OPTIONS itself.
	rt.mux.Handle(http.MethodOptions+" "+path, c.Middleware(http.NotFoundHandler()))
}
