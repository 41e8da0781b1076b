package ownership

import (
	"context"
	"strings"
	"time"

	pkgdb "github.com/stickerdash/stickerdash-backend/pkg/db"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
	"github.com/stickerdash/stickerdash-backend/pkg/metrics"
)

// ServiceParams groups dependencies for the ownership service.
type ServiceParams struct {
	Repo    *Repository
	Logger  *logger.Logger
	Metrics *metrics.OwnershipMetrics
	Clock   func() time.Time
}

// Service records which stickers a user holds.
type Service interface {
	SetOwnership(ctx context.Context, userID string, stickerID int64, owned bool, amount int) error
	ListOwned(ctx context.Context, userID string) ([]RecordDTO, error)
}

type service struct {
	repo    *Repository
	logg    *logger.Logger
	metrics *metrics.OwnershipMetrics
	now     func() time.Time
}

// NewService builds an ownership service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ownership repo is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:    params.Repo,
		logg:    logg,
		metrics: params.Metrics,
		now:     clock,
	}, nil
}

// SetOwnership marks a sticker owned (adding amount copies, default 1) or not
// owned (removing the row regardless of amount).
func (s *service) SetOwnership(ctx context.Context, userID string, stickerID int64, owned bool, amount int) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if stickerID < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sticker_id must be at least 1")
	}
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be at least 1")
	}
	if amount == 0 {
		amount = 1
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"sticker_id": stickerID, "owned": owned})

	if !owned {
		removed, err := s.repo.Remove(ctx, userID, stickerID)
		if err != nil {
			s.metrics.Inc(metrics.OwnershipFailed)
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove sticker ownership")
		}
		if removed == 0 {
			s.metrics.Inc(metrics.OwnershipNoop)
			return nil
		}
		s.metrics.Inc(metrics.OwnershipRemoved)
		s.logg.Debug(ctx, "sticker ownership removed")
		return nil
	}

	if err := s.repo.Add(ctx, userID, stickerID, amount, s.now().UTC()); err != nil {
		s.metrics.Inc(metrics.OwnershipFailed)
		if pkgdb.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "sticker not found").
				WithDetails(map[string]any{"sticker_id": stickerID})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record sticker ownership")
	}
	s.metrics.Inc(metrics.OwnershipAdded)
	s.metrics.AddQuantity(amount)
	s.logg.Debug(s.logg.WithField(ctx, "amount", amount), "sticker ownership recorded")
	return nil
}

// ListOwned returns the caller's ownership rows ordered by sticker id.
func (s *service) ListOwned(ctx context.Context, userID string) ([]RecordDTO, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned stickers")
	}
	return FromModels(rows), nil
}
