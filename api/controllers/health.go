package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/stickerdash/stickerdash-backend/api/responses"
	"github.com/stickerdash/stickerdash-backend/pkg/config"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
)

const (
	envHeader            = "X-StickerDash-Env"
	readinessPingTimeout = 2 * time.Second
)

// Pinger is satisfied by the db and redis clients.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger, redisPinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		var failed error
		for name, pinger := range map[string]Pinger{"database": dbPinger, "redis": redisPinger} {
			if pinger == nil {
				checks[name] = "skipped"
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), readinessPingTimeout)
			err := pinger.Ping(ctx)
			cancel()
			if err != nil {
				checks[name] = "unavailable"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" ping failed").
						WithDetails(map[string]any{"step": name + "_ping"})
				}
				continue
			}
			checks[name] = "ok"
		}

		if failed != nil {
			responses.WriteError(r.Context(), logg, w, failed)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
