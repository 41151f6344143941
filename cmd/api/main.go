package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fleetworks/fleet-maintenance/internal/api/rest"
	"github.com/fleetworks/fleet-maintenance/internal/api/rest/handlers"
	"github.com/fleetworks/fleet-maintenance/internal/repository/postgres"
	"github.com/fleetworks/fleet-maintenance/internal/services"
	"github.com/fleetworks/fleet-maintenance/pkg/auth"
	"github.com/fleetworks/fleet-maintenance/pkg/config"
	"github.com/fleetworks/fleet-maintenance/pkg/database"
	"github.com/fleetworks/fleet-maintenance/pkg/logger"
	"github.com/fleetworks/fleet-maintenance/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	logger.SetDefault(log)
	log.Info("Starting fleet maintenance API",
		logger.String("version", cfg.App.Version),
		logger.String("environment", cfg.App.Environment),
	)

	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	redis, err := database.NewRedisClient(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()

	m := metrics.New()

	store := postgres.NewStore(db, log)

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		if cfg.App.Environment == "production" {
			return fmt.Errorf("JWT_SECRET environment variable must be set in production")
		}
		jwtSecret = "default-secret-change-this-in-production"
		log.Warn("JWT_SECRET not set, using default (INSECURE, development only)")
	}
	jwtManager := auth.NewJWTManager(jwtSecret, cfg.Auth.AccessTokenTTL)

	workOrderService := services.NewWorkOrderService(store, log, m)
	approvalService := services.NewApprovalService(store, log, m, redis.Client, cfg.Approval)
	authService := services.NewAuthService(store.Users(), jwtManager, log)

	h := handlers.NewHandlers(
		log,
		store,
		workOrderService,
		approvalService,
		authService,
		&handlers.HealthCheckers{
			DB:    db,
			Redis: redis,
		},
		cfg.App.Version,
	)

	router := rest.NewRouter(log, h, authService, m, cfg.Server)
	router.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("API server listening", logger.String("address", addr))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
