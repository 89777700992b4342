package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docrag/internal/handlers"
	"docrag/internal/service"
)

// Deps holds dependencies for the HTTP router. AllowedOrigins are the
// browser origins permitted to call the API.
type Deps struct {
	Service        service.RAGService
	DB             handlers.Pinger
	EmbedderName   string
	AllowedOrigins []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB, deps.EmbedderName))

		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/ingest", handlers.NewIngestHandler(deps.Service))
			r.Method(http.MethodPost, "/query", handlers.NewQueryHandler(deps.Service))
			r.Method(http.MethodGet, "/stats", handlers.NewStatsHandler(deps.Service))
			r.Method(http.MethodGet, "/documents/{id}", handlers.NewDocumentHandler(deps.Service))
		})
	})

	return r
}
