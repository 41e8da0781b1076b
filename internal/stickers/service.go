package stickers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/stickerdash/stickerdash-backend/internal/permissions"
	"github.com/stickerdash/stickerdash-backend/pkg/db/models"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
)

// MaxNameLength matches the varchar width of stickers.name.
const MaxNameLength = 256

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo        *Repository
	Permissions permissions.Checker
}

// Service exposes catalog reads and administrator writes.
type Service interface {
	List(ctx context.Context) ([]StickerDTO, error)
	Create(ctx context.Context, actorID string, input CreateStickerInput) (*StickerDTO, error)
}

type service struct {
	repo        *Repository
	permissions permissions.Checker
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sticker repo is required")
	}
	if params.Permissions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "permission checker is required")
	}
	return &service{
		repo:        params.Repo,
		permissions: params.Permissions,
	}, nil
}

// List returns the whole catalog. No authentication is involved.
func (s *service) List(ctx context.Context) ([]StickerDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stickers")
	}
	return FromModels(rows), nil
}

// Create adds a single entry on behalf of an administrator.
func (s *service) Create(ctx context.Context, actorID string, input CreateStickerInput) (*StickerDTO, error) {
	if err := requireAdminWrite(ctx, s.permissions, actorID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	imageURL := strings.TrimSpace(input.ImageURL)
	if name == "" || imageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and image_url are required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name exceeds 256 characters")
	}

	row := &models.Sticker{Name: name, Category: input.Category, ImageURL: imageURL}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sticker")
	}
	dto := FromModel(*row)
	return &dto, nil
}

func requireAdminWrite(ctx context.Context, checker permissions.Checker, actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	ok, err := checker.HasPermission(ctx, actorID, permissions.AdminWrite)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin:write permission required")
	}
	return nil
}
