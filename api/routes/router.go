package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stickerdash/stickerdash-backend/api/controllers"
	authcontrollers "github.com/stickerdash/stickerdash-backend/api/controllers/auth"
	stickercontrollers "github.com/stickerdash/stickerdash-backend/api/controllers/stickers"
	"github.com/stickerdash/stickerdash-backend/api/middleware"
	"github.com/stickerdash/stickerdash-backend/internal/auth"
	"github.com/stickerdash/stickerdash-backend/internal/catalogimport"
	"github.com/stickerdash/stickerdash-backend/internal/ownership"
	"github.com/stickerdash/stickerdash-backend/internal/permissions"
	"github.com/stickerdash/stickerdash-backend/internal/stickers"
	"github.com/stickerdash/stickerdash-backend/pkg/auth/session"
	"github.com/stickerdash/stickerdash-backend/pkg/config"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
	"github.com/stickerdash/stickerdash-backend/pkg/metrics"
	pkgredis "github.com/stickerdash/stickerdash-backend/pkg/redis"
)

// RedisStore is the redis surface used by the HTTP layer.
type RedisStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisStore RedisStore,
	sessionChecker session.AccessSessionChecker,
	permissionChecker permissions.Checker,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	stickerService stickers.Service,
	ownershipService ownership.Service,
	importService catalogimport.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	sessionPolicy := middleware.NewAuthRateLimitPolicy(
		"session",
		cfg.AuthRateLimit.SessionWindow,
		cfg.AuthRateLimit.SessionIPLimit,
		cfg.AuthRateLimit.SessionEmailLimit,
	)
	mutationPolicy := middleware.NewUserRateLimitPolicy(
		"mutations",
		cfg.RateLimit.Window,
		cfg.RateLimit.Limit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisStore))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Get("/stickers", stickercontrollers.PublicStickers(stickerService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() && cfg.FeatureFlags.DevSessions {
			r.With(middleware.RateLimit(sessionPolicy, redisStore, logg)).Post("/dev-session", authcontrollers.AuthDevSession(authService, cfg, logg))
		}
		r.With(middleware.RateLimit(sessionPolicy, redisStore, logg)).Post("/refresh", authcontrollers.AuthRefresh(authService, logg))
		r.Post("/logout", authcontrollers.AuthLogout(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessionChecker, logg)).Get("/session", authcontrollers.AuthSession(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RateLimit(mutationPolicy, redisStore, logg))

		r.With(middleware.RequirePermission(permissionChecker, permissions.StickerRead, logg)).
			Get("/stickers/owned", stickercontrollers.OwnedStickers(ownershipService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(permissionChecker, permissions.StickerWrite, logg))
			r.Use(middleware.Idempotency(redisStore, logg))
			r.Post("/stickers/owned", stickercontrollers.SetStickerOwned(ownershipService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequirePermission(permissionChecker, permissions.AdminRead, logg))
		r.Use(middleware.RateLimit(mutationPolicy, redisStore, logg))

		r.Get("/access", controllers.AdminAccess(permissionChecker, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequirePermission(permissionChecker, permissions.AdminWrite, logg))
			r.Use(middleware.Idempotency(redisStore, logg))
			r.Post("/stickers", stickercontrollers.AdminCreateSticker(stickerService, logg))
			r.Post("/stickers/import", stickercontrollers.AdminImportStickers(importService, logg))
		})
	})

	return r
}
