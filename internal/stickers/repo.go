package stickers

import (
	"context"

	"gorm.io/gorm"

	"github.com/stickerdash/stickerdash-backend/internal/repo"
	"github.com/stickerdash/stickerdash-backend/pkg/db/models"
)

// DefaultBatchSize bounds IN lists and multi-row inserts.
const DefaultBatchSize = 500

// importLockKey is the postgres advisory lock serializing catalog imports.
const importLockKey int64 = 0x5717c3e5

// Repository encapsulates catalog persistence.
type Repository struct {
	repo.Base
	batchSize int
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB, batchSize int) *Repository {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Repository{Base: repo.NewBase(db), batchSize: batchSize}
}

// WithTx returns a repository that runs on the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Bind(tx), batchSize: r.batchSize}
}

// LockForImport serializes concurrent imports for the rest of the current
// transaction so two runs cannot both insert the same new name. sqlite
// connections are already single-writer, so this is a no-op there.
func (r *Repository) LockForImport(ctx context.Context) error {
	conn := r.DB(ctx)
	if conn.Dialector.Name() != "postgres" {
		return nil
	}
	return conn.Exec("SELECT pg_advisory_xact_lock(?)", importLockKey).Error
}

// List returns every catalog entry ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Sticker, error) {
	var rows []models.Sticker
	if err := r.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single entry.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Sticker, error) {
	var row models.Sticker
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts one entry and fills its id.
func (r *Repository) Create(ctx context.Context, sticker *models.Sticker) error {
	return r.DB(ctx).Create(sticker).Error
}

// ExistingNames reports which of names already have a catalog entry. The
// lookup is split into chunks so large feeds stay under bind-parameter limits.
func (r *Repository) ExistingNames(ctx context.Context, names []string) (map[string]struct{}, error) {
	found := make(map[string]struct{}, len(names))
	for start := 0; start < len(names); start += r.batchSize {
		end := min(start+r.batchSize, len(names))

		var chunk []string
		err := r.DB(ctx).
			Model(&models.Sticker{}).
			Where("name IN ?", names[start:end]).
			Distinct().
			Pluck("name", &chunk).Error
		if err != nil {
			return nil, err
		}
		for _, name := range chunk {
			found[name] = struct{}{}
		}
	}
	return found, nil
}

// CreateBatch inserts entries in multi-row statements and returns the rows
// with ids assigned.
func (r *Repository) CreateBatch(ctx context.Context, entries []NewEntry) ([]models.Sticker, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	rows := make([]models.Sticker, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.Sticker{Name: entry.Name, ImageURL: entry.ImageURL})
	}
	if err := r.DB(ctx).CreateInBatches(&rows, r.batchSize).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
