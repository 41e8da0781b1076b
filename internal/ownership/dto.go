package ownership

import (
	"time"

	"github.com/stickerdash/stickerdash-backend/pkg/db/models"
)

// RecordDTO is the transport shape of an ownership row.
type RecordDTO struct {
	UserID    string     `json:"user_id"`
	StickerID int64      `json:"sticker_id"`
	Quantity  int        `json:"quantity"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func FromModels(rows []models.UserSticker) []RecordDTO {
	out := make([]RecordDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, RecordDTO{
			UserID:    row.UserID,
			StickerID: row.StickerID,
			Quantity:  row.Quantity,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out
}
