package rest

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleetworks/fleet-maintenance/internal/api/rest/handlers"
	customMiddleware "github.com/fleetworks/fleet-maintenance/internal/api/rest/middleware"
	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/config"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
	"github.com/fleetworks/fleet-maintenance/pkg/metrics"
)

// Router holds the HTTP router and dependencies
type Router struct {
	router      *chi.Mux
	logger      *logger.Logger
	handlers    *handlers.Handlers
	authService *services.AuthService
	metrics     *metrics.Metrics
	serverCfg   config.ServerConfig
}

// NewRouter creates a new HTTP router
func NewRouter(log *logger.Logger, h *handlers.Handlers, authService *services.AuthService, m *metrics.Metrics, serverCfg config.ServerConfig) *Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Use(customMiddleware.Metrics(m))

	r.Use(customMiddleware.SecurityHeaders())
	r.Use(customMiddleware.RequestSizeLimit(customMiddleware.GetMaxRequestSize()))

	allowedOrigins := []string{"http://localhost:3000"}
	if originsEnv := os.Getenv("ALLOWED_ORIGINS"); originsEnv != "" {
		allowedOrigins = strings.Split(originsEnv, ",")
		for i := range allowedOrigins {
			allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
		}
	}

	allowCredentials := true
	for _, origin := range allowedOrigins {
		if origin == "*" {
			log.Warn("CORS: wildcard origin with credentials enabled, disabling credentials")
			allowCredentials = false
			break
		}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}))

	return &Router{
		router:      r,
		logger:      log,
		handlers:    h,
		authService: authService,
		metrics:     m,
		serverCfg:   serverCfg,
	}
}

// SetupRoutes configures all API routes
func (r *Router) SetupRoutes() {
	// Prometheus metrics endpoint (no auth required)
	r.router.Handle("/metrics", promhttp.Handler())

	// Health endpoints (no auth required)
	r.router.Get("/health", r.handlers.Health.Health)
	r.router.Get("/ready", r.handlers.Health.Ready)

	r.router.Route("/api/v1", func(router chi.Router) {
		// Auth endpoints (public)
		router.Route("/auth", func(router chi.Router) {
			router.Post("/login", r.handlers.Auth.Login)

			router.Group(func(router chi.Router) {
				router.Use(customMiddleware.JWTAuth(r.authService, r.logger))
				router.Get("/me", r.handlers.Auth.Me)
			})
		})

		// Protected routes
		router.Group(func(router chi.Router) {
			router.Use(customMiddleware.JWTAuth(r.authService, r.logger))
			router.Use(customMiddleware.RateLimitWithConfig(r.serverCfg.RateLimitRPS, r.serverCfg.RateLimitBurst, r.logger))

			// Fleet assets
			router.Route("/assets", func(router chi.Router) {
				router.Get("/", r.handlers.Asset.List)
				router.Get("/{id}", r.handlers.Asset.Get)
				router.Get("/ficha/{ficha}/log", r.handlers.Asset.MaintenanceLog)
			})

			// Work orders
			router.Route("/work-orders", func(router chi.Router) {
				router.Get("/", r.handlers.WorkOrder.List)
				router.Post("/", r.handlers.WorkOrder.Create)
				router.Get("/{id}", r.handlers.WorkOrder.Get)
				router.Post("/{id}/assign", r.handlers.WorkOrder.Assign)
				router.Post("/{id}/start", r.handlers.WorkOrder.Start)
				router.Post("/{id}/pause", r.handlers.WorkOrder.Pause)
				router.Post("/{id}/resume", r.handlers.WorkOrder.Resume)
				router.Post("/{id}/close", r.handlers.WorkOrder.Close)
				router.Post("/{id}/cancel", r.handlers.WorkOrder.Cancel)
			})

			// Purchase orders
			router.Route("/purchase-orders", func(router chi.Router) {
				router.Post("/", r.handlers.PurchaseOrder.Create)
				router.Get("/pending", r.handlers.PurchaseOrder.Pending)
				router.Get("/{id}", r.handlers.PurchaseOrder.Get)
				router.Post("/{id}/submit", r.handlers.PurchaseOrder.Submit)
				router.Post("/{id}/approve", r.handlers.PurchaseOrder.Approve)
				router.Post("/{id}/reject", r.handlers.PurchaseOrder.Reject)
				router.Get("/{id}/history", r.handlers.PurchaseOrder.History)
			})

			// Approval workflow definition
			router.Route("/approval-workflows", func(router chi.Router) {
				router.Get("/active", r.handlers.Workflow.GetActive)
			})
		})
	})
}

// Handler returns the http.Handler
func (r *Router) Handler() http.Handler {
	return r.router
}
