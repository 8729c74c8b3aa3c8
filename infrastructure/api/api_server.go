package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gdp-poc/gdp"
	apimiddleware "github.com/gdp-poc/gdp/infrastructure/api/middleware"
	v1 "github.com/gdp-poc/gdp/infrastructure/api/v1"
	"github.com/gdp-poc/gdp/infrastructure/api/v1/dto"
	"github.com/gdp-poc/gdp/internal/config"
	"github.com/gdp-poc/gdp/internal/log"
)

// ServerOption configures an APIServer.
type ServerOption func(*APIServer)

// WithVersion sets the version reported by the health endpoint.
func WithVersion(v string) ServerOption {
	return func(a *APIServer) { a.version = v }
}

// WithStaticDir serves the built front-end from dir.
func WithStaticDir(dir string) ServerOption {
	return func(a *APIServer) { a.staticDir = dir }
}

// WithCORSOrigins allows cross-origin requests from the given origins.
func WithCORSOrigins(origins []string) ServerOption {
	return func(a *APIServer) { a.corsOrigins = origins }
}

// WithRequestTimeout bounds how long a single /api request may run.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(a *APIServer) { a.requestTimeout = d }
}

// APIServer provides the menu HTTP API backed by a gdp Client.
type APIServer struct {
	client         *gdp.Client
	version        string
	staticDir      string
	corsOrigins    []string
	requestTimeout time.Duration
	router         chi.Router
	logger         *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given gdp Client.
func NewAPIServer(client *gdp.Client, opts ...ServerOption) *APIServer {
	a := &APIServer{
		client:         client,
		version:        "dev",
		requestTimeout: config.DefaultRequestTimeout,
		logger:         client.Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
// If not called, Handler creates a default router with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	return a.router
}

// MountRoutes wires up all routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

// mountRoutes wires up the API, docs and front-end routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	router.Use(apimiddleware.CorrelationID)
	router.Use(apimiddleware.Identity)
	router.Use(apimiddleware.Logging(log.FromSlog(a.logger)))
	if len(a.corsOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   a.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", apimiddleware.UserHeader, apimiddleware.CorrelationHeader},
			ExposedHeaders:   []string{apimiddleware.CorrelationHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	menus := v1.NewMenuRouter(a.client.Menus, a.logger)

	router.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(a.requestTimeout))

		r.Get("/health", a.health)
		r.Mount("/menu", menus.Routes())
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			apimiddleware.WriteError(w, r, apimiddleware.NewAPIError(http.StatusNotFound, "no such endpoint", nil), nil)
		})
	})

	router.Get("/page/{pageID}/go", menus.Redirect)
	router.Mount("/docs", a.DocsRouter("/docs/openapi.json").Routes())
	router.Handle("/*", NewSPAHandler(a.staticDir, a.logger))
}

func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, dto.HealthResponse{Status: "healthy", Version: a.version})
}

// DocsRouter returns the Swagger UI and OpenAPI document router.
func (a *APIServer) DocsRouter(specURL string) *DocsRouter {
	return NewDocsRouter(specURL)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
