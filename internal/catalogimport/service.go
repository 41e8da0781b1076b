// Package catalogimport reconciles a remote sticker feed into the catalog.
package catalogimport

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/stickerdash/stickerdash-backend/internal/feed"
	"github.com/stickerdash/stickerdash-backend/internal/permissions"
	"github.com/stickerdash/stickerdash-backend/internal/stickers"
	pkgerrors "github.com/stickerdash/stickerdash-backend/pkg/errors"
	"github.com/stickerdash/stickerdash-backend/pkg/logger"
	"github.com/stickerdash/stickerdash-backend/pkg/metrics"
)

const stepFetchFeed = "fetch_feed"

// Actor identifies who triggered the import.
type Actor struct {
	UserID string
}

// Result summarizes one import run.
type Result struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the import service.
type ServiceParams struct {
	DB          txRunner
	Stickers    *stickers.Repository
	Feed        feed.Fetcher
	Permissions permissions.Checker
	Logger      *logger.Logger
	Metrics     *metrics.ImportMetrics
}

// Service imports catalog entries from a JSON feed.
type Service interface {
	ImportFromJSON(ctx context.Context, actor Actor, sourceURL string) (*Result, error)
}

type service struct {
	db          txRunner
	stickers    *stickers.Repository
	feed        feed.Fetcher
	permissions permissions.Checker
	logg        *logger.Logger
	metrics     *metrics.ImportMetrics
}

// NewService builds the import service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db is required")
	}
	if params.Stickers == nil {
		return nil, fmt.Errorf("sticker repository is required")
	}
	if params.Feed == nil {
		return nil, fmt.Errorf("feed fetcher is required")
	}
	if params.Permissions == nil {
		return nil, fmt.Errorf("permission checker is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		db:          params.DB,
		stickers:    params.Stickers,
		feed:        params.Feed,
		permissions: params.Permissions,
		logg:        logg,
		metrics:     params.Metrics,
	}, nil
}

// ImportFromJSON fetches the feed at sourceURL and inserts every entry whose
// name is not already in the catalog. The caller must hold admin:write; the
// check happens before any network or store access.
func (s *service) ImportFromJSON(ctx context.Context, actor Actor, sourceURL string) (*Result, error) {
	started := time.Now()
	ctx = s.logg.WithFields(ctx, map[string]any{"source_url": sourceURL, "actor_id": actor.UserID})

	if err := s.authorize(ctx, actor); err != nil {
		s.metrics.ObserveRun(metrics.OutcomeDenied, time.Since(started))
		return nil, err
	}

	result, err := s.run(ctx, sourceURL)
	if err != nil {
		s.metrics.ObserveRun(metrics.OutcomeFailure, time.Since(started))
		s.logg.Warn(ctx, fmt.Sprintf("sticker import failed: %v", err))
		return nil, err
	}

	s.metrics.ObserveRun(metrics.OutcomeSuccess, time.Since(started))
	s.metrics.AddEntries(result.Fetched, result.Inserted, result.Skipped)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"fetched":  result.Fetched,
		"inserted": result.Inserted,
		"skipped":  result.Skipped,
	}), "sticker import completed")
	return result, nil
}

func (s *service) authorize(ctx context.Context, actor Actor) error {
	if strings.TrimSpace(actor.UserID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	ok, err := s.permissions.HasPermission(ctx, actor.UserID, permissions.AdminWrite)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin:write permission required")
	}
	return nil
}

func (s *service) run(ctx context.Context, sourceURL string) (*Result, error) {
	if err := validateSourceURL(sourceURL); err != nil {
		return nil, err
	}

	entries, err := s.feed.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch sticker feed").
			WithDetails(map[string]any{"step": stepFetchFeed})
	}

	if err := validateEntries(entries); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "feed contains invalid entries").
			WithDetails(map[string]any{"errors": describe(err)})
	}

	candidates := dedupe(entries)
	result := &Result{Fetched: len(entries)}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.stickers.WithTx(tx)
		if err := repo.LockForImport(ctx); err != nil {
			return err
		}

		names := make([]string, 0, len(candidates))
		for _, entry := range candidates {
			names = append(names, entry.Name)
		}
		existing, err := repo.ExistingNames(ctx, names)
		if err != nil {
			return err
		}

		fresh := make([]stickers.NewEntry, 0, len(candidates))
		for _, entry := range candidates {
			if _, ok := existing[entry.Name]; ok {
				continue
			}
			fresh = append(fresh, stickers.NewEntry{Name: entry.Name, ImageURL: entry.Src})
		}

		if _, err := repo.CreateBatch(ctx, fresh); err != nil {
			return err
		}
		result.Inserted = len(fresh)
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store imported stickers")
	}

	result.Skipped = result.Fetched - result.Inserted
	return result, nil
}

func validateSourceURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !parsed.IsAbs() || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		return pkgerrors.New(pkgerrors.CodeValidation, "url must be an absolute http(s) URL").
			WithDetails(map[string]any{"field": "url"})
	}
	return nil
}

// validateEntries collects one error per entry lacking a name or src, or
// whose name does not fit the catalog column.
func validateEntries(entries []feed.Entry) error {
	var errs error
	for i, entry := range entries {
		switch {
		case strings.TrimSpace(entry.Name) == "":
			errs = multierr.Append(errs, fmt.Errorf("entry %d: name is required", i))
		case utf8.RuneCountInString(entry.Name) > stickers.MaxNameLength:
			errs = multierr.Append(errs, fmt.Errorf("entry %d: name exceeds %d characters", i, stickers.MaxNameLength))
		}
		if strings.TrimSpace(entry.Src) == "" {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: src is required", i))
		}
	}
	return errs
}

func describe(err error) []string {
	parts := multierr.Errors(err)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, part.Error())
	}
	return out
}

// dedupe keeps the first entry for each exact name, in feed order.
func dedupe(entries []feed.Entry) []feed.Entry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]feed.Entry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Name]; ok {
			continue
		}
		seen[entry.Name] = struct{}{}
		out = append(out, entry)
	}
	return out
}
