package controllers

import (
	"net/http"

	"github.com/stickerdash/stickerdash-backend/api/middleware"
	"github.com/stickerdash/stickerdash-backend/api/responses"
	"github.com/stickerdash/stickerdash-backend/internal/permissions"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
)

type accessResponse struct {
	UserID      string   `json:"user_id"`
	Permissions []string `json:"permissions"`
}

// AdminAccess lists the permissions the caller currently holds. The admin
// panel calls it to decide what to render.
func AdminAccess(checker permissions.Checker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "permission checker unavailable"))
			return
		}
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		held := make([]string, 0, len(permissions.All()))
		for _, perm := range permissions.All() {
			ok, err := checker.HasPermission(r.Context(), userID, perm)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if ok {
				held = append(held, perm.String())
			}
		}
		responses.WriteSuccess(w, accessResponse{UserID: userID, Permissions: held})
	}
}
