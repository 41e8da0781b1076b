package models

// Sticker is a catalog entry. Name is the natural key used during import.
type Sticker struct {
	ID       int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string  `gorm:"column:name;type:varchar(256);not null;index:stickers_name_idx"`
	Category *string `gorm:"column:category;type:varchar(256)"`
	ImageURL string  `gorm:"column:image_url;type:text;not null"`
}
