package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/infra/http/handlers"
	"github.com/xavierca1/seller-console/internal/infra/http/middleware"
	"github.com/xavierca1/seller-console/internal/usecase"
)

type Deps struct {
	Coord         *usecase.Coordinator
	Ctrl          *usecase.Controller
	Notifications *usecase.NotificationCenter
	Health        *handlers.HealthHandler
	Limiter       *middleware.RateLimiter // nil disables rate limiting
	Logger        *zap.Logger

	AllowedOrigins []string
	Timeout        time.Duration
}

func New(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	leads := handlers.NewLeadHandler(d.Coord, d.Ctrl, logger)
	opps := handlers.NewOpportunityHandler(d.Coord, d.Ctrl, logger)
	views := handlers.NewViewHandler(d.Ctrl)
	validation := handlers.NewValidationHandler()
	stats := handlers.NewStatsHandler(d.Ctrl)
	notes := handlers.NewNotificationHandler(d.Notifications)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if d.Limiter != nil {
		r.Use(d.Limiter.Limit)
	}

	if d.Health != nil {
		r.Get("/health", d.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", leads.List)
			r.Post("/", leads.Create)
			r.Post("/import", leads.Import)
			r.Get("/export", leads.Export)
			r.Get("/{id}", leads.Get)
			r.Patch("/{id}", leads.Update)
			r.Delete("/{id}", leads.Delete)
			r.Post("/{id}/convert", leads.Convert)
		})

		r.Route("/opportunities", func(r chi.Router) {
			r.Get("/", opps.List)
			r.Get("/export", opps.Export)
			r.Get("/{id}", opps.Get)
			r.Patch("/{id}", opps.Update)
			r.Delete("/{id}", opps.Delete)
		})

		r.Put("/filters/leads", views.LeadFilters)
		r.Put("/filters/opportunities", views.OpportunityFilters)
		r.Put("/sort/leads", views.LeadSort)
		r.Put("/sort/opportunities", views.OpportunitySort)

		r.Post("/validate/lead", validation.Lead)
		r.Post("/validate/opportunity", validation.Opportunity)

		r.Get("/stats", stats.Handle)

		r.Get("/notifications", notes.List)
		r.Delete("/notifications/{id}", notes.Dismiss)
	})

	return r
}
