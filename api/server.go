/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request, copied into every log line
  2. RealIP:     Client address behind a proxy
  3. accessLog:  zap access log and request metrics
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/v1/compute*      Computations
  /api/v1/projection    Projection surface
  /api/v1/years/*       Rule table listings
  /api/v1/scenarios/*   Presets
  /api/v1/cache/*       Memo cache introspection
  /healthz              Liveness
  /metrics              Prometheus scrape

SECURITY NOTE:
  No authentication middleware. The engine is stateless apart from the
  memo cache, which only ever holds what clients posted.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. An empty
// origins list allows any origin.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(h.Log, h.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Computation routes
		r.Post("/compute", h.Compute)
		r.Post("/compute/pdf", h.ComputePDF)
		r.Post("/projection", h.Projection)

		// Rule table routes
		r.Route("/years", func(r chi.Router) {
			r.Get("/", h.ListYears)
			r.Get("/{year}/regions", h.ListRegions)
			r.Get("/{year}/municipalities", h.ListMunicipalities)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/{id}", h.GetScenario)
			r.Post("/{id}/compute", h.ComputeScenario)
		})

		// Cache routes
		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", h.CacheStats)
			r.Get("/prune-runs", h.ListPruneRuns)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, r, http.StatusNotFound, ErrorResponse{Error: http.StatusText(http.StatusNotFound), Details: r.URL.Path})
	})

	return r
}
