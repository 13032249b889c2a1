package models

import (
	"time"
)

// Role defines allowed roles in the system
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleShopOwner Role = "shopowner"
)

// User is a regular account in the users table. Admins live here too,
// distinguished only by role; shop owners have their own table.
type User struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name"`
	Email         string         `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string         `json:"-" gorm:"not null"`
	Address       string         `json:"address"`
	Role          Role           `json:"role" gorm:"not null;default:'user'"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
