package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/stickerdash/stickerdash-backend/pkg/config"
)

var fallbackCORSOrigins = []string{"http://localhost:3000"}

// CORS applies the configured origin policy. The web client sends bearer
// tokens and idempotency keys, so both headers are allowed.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = fallbackCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-SD-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
