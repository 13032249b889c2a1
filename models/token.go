package models

import "time"

// RefreshToken is an opaque long-lived credential persisted server-side.
// A refresh replaces the row outright; no rotation chain is kept.
type RefreshToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"uniqueIndex;not null"`
	Active    bool      `json:"active" gorm:"default:false"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
}
