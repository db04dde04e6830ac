// Package routes assembles the HTTP router.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bettersale/bettersale-backend/api/controllers"
	"github.com/bettersale/bettersale-backend/api/handlers"
	"github.com/bettersale/bettersale-backend/api/middleware"
	"github.com/bettersale/bettersale-backend/internal/tools"
	"github.com/bettersale/bettersale-backend/pkg/logger"
)

// Deps carries everything the router mounts.
type Deps struct {
	Registry    *tools.Registry
	Logger      *logger.Logger
	DB          handlers.Pinger
	Cache       handlers.Pinger
	Metrics     prometheus.Gatherer
	CORSOrigins []string
	Idempotency middleware.IdempotencyStore
}

// New builds the router with the standard middleware chain.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(deps.CORSOrigins))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.Idempotency(deps.Idempotency, deps.Logger))

	r.Get("/healthz", handlers.Healthz(deps.DB, deps.Cache))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	toolsController := controllers.NewToolsController(deps.Registry, deps.Logger)
	r.Route("/v1/tools", func(r chi.Router) {
		r.Get("/", toolsController.List)
		r.Post("/{tool}", toolsController.Invoke)
	})

	return r
}
