package stickers

import (
	"net/http"

	"github.com/stickerdash/stickerdash-backend/api/middleware"
	"github.com/stickerdash/stickerdash-backend/api/responses"
	"github.com/stickerdash/stickerdash-backend/api/validators"
	"github.com/stickerdash/stickerdash-backend/internal/catalogimport"
	"github.com/stickerdash/stickerdash-backend/internal/ownership"
	"github.com/stickerdash/stickerdash-backend/internal/stickers"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
)

const maxNameLength = 256

type setOwnedRequest struct {
	StickerID int64 `json:"sticker_id" validate:"required,gte=1"`
	Owned     *bool `json:"owned" validate:"required"`
	Amount    *int  `json:"amount,omitempty" validate:"omitempty,gte=1"`
}

type importRequest struct {
	URL string `json:"url" validate:"required,http_url"`
}

type createRequest struct {
	Name     string  `json:"name" validate:"required,max=256"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=256"`
	ImageURL string  `json:"image_url" validate:"required,http_url"`
}

// PublicStickers lists the whole catalog.
func PublicStickers(svc stickers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sticker service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OwnedStickers lists the caller's ownership records.
func OwnedStickers(svc ownership.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ownership service unavailable"))
			return
		}

		records, err := svc.ListOwned(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// SetStickerOwned records that the caller owns (or no longer owns) a sticker.
func SetStickerOwned(svc ownership.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ownership service unavailable"))
			return
		}

		var body setOwnedRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount := 0
		if body.Amount != nil {
			if *body.Amount < 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
					WithDetails(map[string]string{"amount": "must be greater than or equal to 1"}))
				return
			}
			amount = *body.Amount
		}

		userID := middleware.UserIDFromContext(r.Context())
		if err := svc.SetOwnership(r.Context(), userID, body.StickerID, *body.Owned, amount); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"sticker_id": body.StickerID,
			"owned":      *body.Owned,
		})
	}
}

// AdminCreateSticker adds a single catalog entry.
func AdminCreateSticker(svc stickers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sticker service unavailable"))
			return
		}

		var body createRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := stickers.CreateStickerInput{
			Name:     validators.SanitizeString(body.Name, maxNameLength),
			ImageURL: validators.SanitizeString(body.ImageURL, 0),
		}
		if body.Category != nil {
			category := validators.SanitizeString(*body.Category, maxNameLength)
			if category != "" {
				input.Category = &category
			}
		}

		created, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminImportStickers pulls new catalog entries from a JSON feed.
func AdminImportStickers(svc catalogimport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "import service unavailable"))
			return
		}

		var body importRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := catalogimport.Actor{UserID: middleware.UserIDFromContext(r.Context())}
		result, err := svc.ImportFromJSON(r.Context(), actor, body.URL)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
