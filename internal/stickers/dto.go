package stickers

import "github.com/stickerdash/stickerdash-backend/pkg/db/models"

// StickerDTO is the public shape of a catalog entry.
type StickerDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category *string `json:"category"`
	ImageURL string  `json:"image_url"`
}

// CreateStickerInput describes a single administrator-created entry.
type CreateStickerInput struct {
	Name     string
	Category *string
	ImageURL string
}

// NewEntry is a catalog row about to be inserted by an import.
type NewEntry struct {
	Name     string
	ImageURL string
}

func FromModel(m models.Sticker) StickerDTO {
	return StickerDTO{
		ID:       m.ID,
		Name:     m.Name,
		Category: m.Category,
		ImageURL: m.ImageURL,
	}
}

func FromModels(rows []models.Sticker) []StickerDTO {
	out := make([]StickerDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}
