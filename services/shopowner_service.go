package services

import (
	"gorm.io/gorm"

	"store-rating-api/models"
)

// ShopOwnerService exposes per-owner shop and rating views. Every lookup is
// scoped by owner id, so an owner can never observe another owner's shops.
type ShopOwnerService struct {
	db *gorm.DB
}

func NewShopOwnerService(db *gorm.DB) *ShopOwnerService {
	return &ShopOwnerService{db: db}
}

// OwnerRatingRow is one rating across the owner's shops with rater identity.
type OwnerRatingRow struct {
	RatingID uint   `json:"ratingId"`
	UserID   uint   `json:"userId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	ShopID   uint   `json:"shopId"`
	ShopName string `json:"shopName"`
	Value    int    `json:"rating"`
	Comment  string `json:"comment"`
}

type OwnerDashboard struct {
	Ratings      []OwnerRatingRow `json:"ratings"`
	Average      float64          `json:"avgRating"`
	TotalRatings int64            `json:"totalRatings"`
}

// ShopPatch carries the updatable shop fields; nil means leave unchanged.
type ShopPatch struct {
	Name        *string
	Address     *string
	Description *string
	Phone       *string
	Hours       *string
	Image       *string
}

// Dashboard returns every rating across the owner's shops plus the combined
// average. An owner with no shops gets ErrNoShopsFound.
func (s *ShopOwnerService) Dashboard(ownerID uint) (*OwnerDashboard, error) {
	var shops []models.Shop
	if err := s.db.Where("owner_id = ?", ownerID).Find(&shops).Error; err != nil {
		return nil, err
	}
	if len(shops) == 0 {
		return nil, ErrNoShopsFound
	}
	shopIDs := make([]uint, len(shops))
	for i, shop := range shops {
		shopIDs[i] = shop.ID
	}

	var ratings []models.Rating
	err := s.db.Preload("User").Preload("Shop").
		Where("shop_id IN ?", shopIDs).
		Order("created_at desc").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}

	rows := make([]OwnerRatingRow, 0, len(ratings))
	for _, r := range ratings {
		rows = append(rows, OwnerRatingRow{
			RatingID: r.ID,
			UserID:   r.UserID,
			UserName: r.User.Name,
			Email:    r.User.Email,
			ShopID:   r.ShopID,
			ShopName: r.Shop.Name,
			Value:    r.Value,
			Comment:  r.Comment,
		})
	}

	agg, err := aggregateAcrossShops(s.db, shopIDs)
	if err != nil {
		return nil, err
	}
	return &OwnerDashboard{Ratings: rows, Average: agg.Average, TotalRatings: agg.Count}, nil
}

// UpdatePassword verifies the old password, then re-hashes and persists.
func (s *ShopOwnerService) UpdatePassword(ownerID uint, oldPassword, newPassword string) error {
	var owner models.ShopOwner
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		return ErrNotFound
	}
	if !checkPassword(owner.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.Model(&owner).Update("password_hash", hash).Error
}

// GetShop fetches a shop only when it belongs to the caller. An id/owner
// mismatch reads exactly like a missing shop.
func (s *ShopOwnerService) GetShop(ownerID, shopID uint) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.Where("id = ? AND owner_id = ?", shopID, ownerID).First(&shop).Error; err != nil {
		return nil, ErrNotFound
	}
	return &shop, nil
}

// UpdateShop patches an owned shop's fields in place.
func (s *ShopOwnerService) UpdateShop(ownerID, shopID uint, patch ShopPatch) (*models.Shop, error) {
	shop, err := s.GetShop(ownerID, shopID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		shop.Name = *patch.Name
	}
	if patch.Address != nil {
		shop.Address = *patch.Address
	}
	if patch.Description != nil {
		shop.Description = *patch.Description
	}
	if patch.Phone != nil {
		shop.Phone = *patch.Phone
	}
	if patch.Hours != nil {
		shop.Hours = *patch.Hours
	}
	if patch.Image != nil {
		shop.Image = *patch.Image
	}
	if err := s.db.Save(shop).Error; err != nil {
		return nil, err
	}
	return shop, nil
}

// DeleteShop removes an owned shop and its ratings.
func (s *ShopOwnerService) DeleteShop(ownerID, shopID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var shop models.Shop
		if err := tx.Where("id = ? AND owner_id = ?", shopID, ownerID).First(&shop).Error; err != nil {
			return ErrNotFound
		}
		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&shop).Error
	})
}

// Profile returns the owner record, password stripped by the model's tags.
func (s *ShopOwnerService) Profile(ownerID uint) (*models.ShopOwner, error) {
	var owner models.ShopOwner
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		return nil, ErrNotFound
	}
	return &owner, nil
}
