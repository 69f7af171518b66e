package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mdtangle/internal/handlers"
	"mdtangle/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	TangleService service.TangleService
	DB            handlers.Pinger // Run catalog, checked by /api/health
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)

	// Add CORS middleware
	r.Use(CORS)

	tangleHandler := handlers.NewTangleHandler(deps.TangleService)
	chunksHandler := handlers.NewChunksHandler(deps.TangleService)
	runsHandler := handlers.NewRunsHandler(deps.TangleService)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/tangle", tangleHandler)
		r.Method(http.MethodPost, "/chunks", chunksHandler)
		r.Method(http.MethodGet, "/runs", runsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
