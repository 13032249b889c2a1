package models

import "time"

// Rating is a 1-5 score a user leaves for a shop, at most one per (user, shop).
// The composite unique index enforces that at the storage layer, so two
// near-simultaneous submissions cannot both slip past the existence check.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_ratings_user_shop"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ShopID    uint      `json:"shop_id" gorm:"not null;uniqueIndex:idx_ratings_user_shop"`
	Shop      Shop      `json:"shop,omitempty" gorm:"foreignKey:ShopID"`
	Value     int       `json:"value" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
