package middleware

import (
	"net/http"

	"github.com/stickerdash/stickerdash-backend/api/responses"
	"github.com/stickerdash/stickerdash-backend/internal/permissions"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
)

// RequirePermission rejects callers that do not hold perm. It must run after
// Auth. The stored role is consulted rather than the token claim so that a
// demotion applies before the token expires.
func RequirePermission(checker permissions.Checker, perm permissions.Permission, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			ok, err := checker.HasPermission(r.Context(), userID, perm)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, perm.String()+" permission required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
