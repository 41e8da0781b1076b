package models

import "time"

// UserSticker records how many copies of a sticker a user holds. A row exists
// only while quantity is at least one.
type UserSticker struct {
	UserID    string     `gorm:"column:user_id;type:text;primaryKey;index:user_stickers_user_idx"`
	StickerID int64      `gorm:"column:sticker_id;primaryKey;autoIncrement:false;index:user_stickers_sticker_idx"`
	Quantity  int        `gorm:"column:quantity;not null;default:1;check:user_stickers_quantity_check,quantity >= 1"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt *time.Time `gorm:"column:updated_at"`

	User    User    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Sticker Sticker `gorm:"foreignKey:StickerID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName pins the table name used by raw upserts.
func (UserSticker) TableName() string {
	return "user_stickers"
}
