package models

import "time"

// ShopOwner is the credential record for the shopowner role. Kept in its own
// table; login with role=shopowner reads this table instead of users.
type ShopOwner struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Address      string    `json:"address"`
	Role         Role      `json:"role" gorm:"not null;default:'shopowner'"`
	Shops        []Shop    `json:"shops,omitempty" gorm:"foreignKey:OwnerID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Shop struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OwnerID     uint      `json:"owner_id" gorm:"not null"`
	Owner       ShopOwner `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name        string    `json:"name" gorm:"not null"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	Hours       string    `json:"hours"`
	Image       string    `json:"image"`
	Ratings     []Rating  `json:"ratings,omitempty" gorm:"foreignKey:ShopID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
