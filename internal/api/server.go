package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	"github.com/edvin/agencysites/internal/api/docs"
	"github.com/edvin/agencysites/internal/api/handler"
	mw "github.com/edvin/agencysites/internal/api/middleware"
	"github.com/edvin/agencysites/internal/api/response"
	"github.com/edvin/agencysites/internal/config"
	"github.com/edvin/agencysites/internal/core"
	"github.com/edvin/agencysites/internal/entitlement"
	"github.com/edvin/agencysites/internal/media"
)

// Pinger checks the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the long-lived components the server routes to.
type Deps struct {
	DB        core.DB
	Pool      Pinger
	Loader    *core.Loader
	Watcher   *core.Watcher
	Media     *media.Resolver
	Evaluator *entitlement.Evaluator
}

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	deps     Deps
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, deps Deps, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: core.NewServices(deps.DB, cfg.JWTSecret, cfg.JWTIssuer),
		deps:     deps,
		cfg:      cfg,
	}
	if s.deps.Evaluator == nil {
		s.deps.Evaluator = entitlement.New(cfg.OperatorIdentities...)
	}
	if s.deps.Watcher == nil {
		s.deps.Watcher = core.NewWatcher(logger)
	}
	if s.deps.Loader == nil {
		s.deps.Loader = core.NewLoader(s.services.Tenant, nil, cfg.StoreTimeout, cfg.CacheTTL)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.router, s.cfg.CORSOrigins, "/sites/", "/templates"))
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// API documentation
	s.router.Get("/docs/openapi.json", s.handleOpenAPI)
	s.router.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(scalarHTML))
	})

	// Public sites
	site := handler.NewSite(s.deps.Loader, s.services.Property, s.deps.Media)
	s.router.Get("/templates", site.Templates)
	s.router.Route("/sites/{slug}", func(r chi.Router) {
		r.Get("/", site.Home)
		r.Get("/content", site.Content)
		r.Get("/pages/{pageSlug}", site.Page)
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(s.services.Auth))

		tenant := handler.NewTenant(s.services.Tenant)
		r.Post("/tenants", tenant.Create)

		r.Route("/tenants/{slug}", func(r chi.Router) {
			r.Use(mw.Tenant(s.services.Tenant, s.deps.Evaluator))

			// Access stays reachable for locked-out tenants.
			access := handler.NewAccess(s.deps.Evaluator)
			r.Get("/access", access.Get)

			r.Group(func(r chi.Router) {
				r.Use(mw.Entitlement(s.deps.Evaluator, nil))

				content := handler.NewContent(s.services.Tenant, s.deps.Loader, s.services.Property, s.deps.Media)
				r.Get("/content", content.Get)
				r.Put("/content", content.Put)
				r.Post("/sections", content.AddSection)
				r.Post("/sections/{index}/move", content.MoveSection)
				r.Post("/sections/{id}/toggle", content.ToggleSection)
				r.Post("/menus/{menu}/items", content.AddMenuItem)
				r.Post("/menus/{menu}/items/{index}/move", content.MoveMenuItem)
				r.Post("/pages", content.AddPage)
				r.Post("/preview", content.Preview)
				r.Put("/branding", content.Branding)

				live := handler.NewLive(s.deps.Watcher, s.services.Tenant, s.deps.Evaluator, s.deps.Media, s.cfg.CORSOrigins)
				r.Get("/live", live.Connect)
			})
		})
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		s.logger.Error().Err(err).Msg("read openapi document")
		response.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

const scalarHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Agency Sites API</title>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
</head>
<body>
  <script id="api-reference" data-url="/docs/openapi.json"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if s.deps.Pool == nil {
		checks["database"] = "not configured"
		healthy = false
	} else if err := s.deps.Pool.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "checks": checks})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
