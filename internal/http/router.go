package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vinylchat/internal/handlers"
	"vinylchat/internal/metrics"
	"vinylchat/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService service.ChatService
	Catalog     handlers.CatalogChecker
	// History is nil when the chat log is disabled.
	History handlers.ChatHistory
	// Reloader is nil when the collection cannot be reloaded over HTTP.
	Reloader  handlers.CatalogReloader
	Metrics   *metrics.Collector
	IndexHTML string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(CORS())

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	toolsHandler := handlers.NewToolsHandler(deps.ChatService)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Get("/tools", toolsHandler.List)
		r.Post("/tools/{name}", toolsHandler.Call)
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.Catalog))
		r.Method(http.MethodGet, "/history", handlers.NewHistoryHandler(deps.History))
		if deps.Reloader != nil {
			r.Method(http.MethodPost, "/reload", handlers.NewReloadHandler(deps.Reloader))
		}
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(deps.IndexHTML))
	})

	return r
}
