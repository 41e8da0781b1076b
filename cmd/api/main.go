package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/stickerdash/stickerdash-backend/api/routes"
	"github.com/stickerdash/stickerdash-backend/internal/auth"
	"github.com/stickerdash/stickerdash-backend/internal/catalogimport"
	"github.com/stickerdash/stickerdash-backend/internal/feed"
	"github.com/stickerdash/stickerdash-backend/internal/ownership"
	"github.com/stickerdash/stickerdash-backend/internal/permissions"
	"github.com/stickerdash/stickerdash-backend/internal/stickers"
	"github.com/stickerdash/stickerdash-backend/internal/users"
	"github.com/stickerdash/stickerdash-backend/pkg/auth/session"
	"github.com/stickerdash/stickerdash-backend/pkg/config"
	"github.com/stickerdash/stickerdash-backend/pkg/db"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
	"github.com/stickerdash/stickerdash-backend/pkg/metrics"
	"github.com/stickerdash/stickerdash-backend/pkg/migrate"
	"github.com/stickerdash/stickerdash-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	userRepo := users.NewRepository(dbClient.DB())
	checker, err := permissions.NewRoleChecker(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create permission checker", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	stickerRepo := stickers.NewRepository(dbClient.DB(), cfg.Import.BatchSize)
	stickerService, err := stickers.NewService(stickers.ServiceParams{
		Repo:        stickerRepo,
		Permissions: checker,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sticker service", err)
		os.Exit(1)
	}

	ownershipService, err := ownership.NewService(ownership.ServiceParams{
		Repo:    ownership.NewRepository(dbClient.DB()),
		Logger:  logg,
		Metrics: metrics.NewOwnershipMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ownership service", err)
		os.Exit(1)
	}

	importService, err := catalogimport.NewService(catalogimport.ServiceParams{
		DB:          dbClient,
		Stickers:    stickerRepo,
		Feed:        feed.NewClient(cfg.Feed, logg),
		Permissions: checker,
		Logger:      logg,
		Metrics:     metrics.NewImportMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create import service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			checker,
			registry,
			metrics.NewHTTPMetrics(registry),
			authService,
			stickerService,
			ownershipService,
			importService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
