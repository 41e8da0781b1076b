package ownership

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/stickerdash/stickerdash-backend/internal/repo"
	"github.com/stickerdash/stickerdash-backend/pkg/db/models"
)

// upsertSQL adds amount to an existing row or creates it. The conflict target
// is the primary key, so concurrent calls for the same pair cannot lose updates.
const upsertSQL = `INSERT INTO user_stickers (user_id, sticker_id, quantity, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, sticker_id) DO UPDATE
SET quantity = user_stickers.quantity + excluded.quantity, updated_at = ?`

// Repository encapsulates ownership persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs an ownership repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Add increases the held quantity by amount, creating the row when absent.
func (r *Repository) Add(ctx context.Context, userID string, stickerID int64, amount int, at time.Time) error {
	return r.DB(ctx).Exec(upsertSQL, userID, stickerID, amount, at, at).Error
}

// Remove deletes the row and reports how many rows went away.
func (r *Repository) Remove(ctx context.Context, userID string, stickerID int64) (int64, error) {
	res := r.DB(ctx).
		Where("user_id = ? AND sticker_id = ?", userID, stickerID).
		Delete(&models.UserSticker{})
	return res.RowsAffected, res.Error
}

// Get loads the row for a pair.
func (r *Repository) Get(ctx context.Context, userID string, stickerID int64) (*models.UserSticker, error) {
	var row models.UserSticker
	if err := r.DB(ctx).
		Where("user_id = ? AND sticker_id = ?", userID, stickerID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByUser returns every row held by the user ordered by sticker id.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.UserSticker, error) {
	var rows []models.UserSticker
	if err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("sticker_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
