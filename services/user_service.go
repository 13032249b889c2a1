package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"store-rating-api/models"
)

// UserService covers store browsing, rating submission and password reset
// for regular accounts.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// StoreSummary is one row of the user-facing store list.
type StoreSummary struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	Description  string  `json:"description"`
	Rating       float64 `json:"rating"`
	TotalRatings int64   `json:"totalRatings"`
}

// StoreDetail is a single store with its aggregate and the caller's own
// rating, if any.
type StoreDetail struct {
	StoreSummary
	Phone    string         `json:"phone,omitempty"`
	Hours    string         `json:"hours,omitempty"`
	Image    string         `json:"image,omitempty"`
	MyRating *models.Rating `json:"myRating,omitempty"`
}

// ListStores returns all shops matching the optional name/address filters,
// each with its recomputed average rating.
func (s *UserService) ListStores(name, address string) ([]StoreSummary, error) {
	q := s.db.Model(&models.Shop{})
	if name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if address != "" {
		q = q.Where("LOWER(address) LIKE ?", "%"+strings.ToLower(address)+"%")
	}
	var shops []models.Shop
	if err := q.Find(&shops).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, len(shops))
	for i, shop := range shops {
		ids[i] = shop.ID
	}
	aggs, err := aggregatesByShop(s.db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]StoreSummary, 0, len(shops))
	for _, shop := range shops {
		agg := aggs[shop.ID]
		out = append(out, StoreSummary{
			ID:           shop.ID,
			Name:         shop.Name,
			Address:      shop.Address,
			Description:  shop.Description,
			Rating:       agg.Average,
			TotalRatings: agg.Count,
		})
	}
	return out, nil
}

// StoreDetails returns one shop with its aggregate and the caller's rating.
func (s *UserService) StoreDetails(userID, shopID uint) (*StoreDetail, error) {
	var shop models.Shop
	if err := s.db.First(&shop, shopID).Error; err != nil {
		return nil, ErrNotFound
	}
	aggs, err := aggregatesByShop(s.db, []uint{shop.ID})
	if err != nil {
		return nil, err
	}
	agg := aggs[shop.ID]

	detail := &StoreDetail{
		StoreSummary: StoreSummary{
			ID:           shop.ID,
			Name:         shop.Name,
			Address:      shop.Address,
			Description:  shop.Description,
			Rating:       agg.Average,
			TotalRatings: agg.Count,
		},
		Phone: shop.Phone,
		Hours: shop.Hours,
		Image: shop.Image,
	}

	var mine models.Rating
	if err := s.db.Where("user_id = ? AND shop_id = ?", userID, shopID).First(&mine).Error; err == nil {
		detail.MyRating = &mine
	}
	return detail, nil
}

// SubmitRating records a first rating for (user, shop). The existence check
// catches the common case; the unique index on (user_id, shop_id) closes the
// race between two simultaneous submissions.
func (s *UserService) SubmitRating(userID, shopID uint, value int, comment string) (*models.Rating, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRatingValue
	}
	var rating *models.Rating
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return ErrNotFound
		}
		var shop models.Shop
		if err := tx.First(&shop, shopID).Error; err != nil {
			return ErrNotFound
		}
		var existing models.Rating
		if err := tx.Where("user_id = ? AND shop_id = ?", userID, shopID).First(&existing).Error; err == nil {
			return ErrDuplicateRating
		}
		r := models.Rating{UserID: userID, ShopID: shopID, Value: value, Comment: comment}
		if err := tx.Create(&r).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateRating
			}
			return err
		}
		rating = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// UpdateRating overwrites the caller's existing rating in place.
func (s *UserService) UpdateRating(userID, shopID uint, value int, comment string) (*models.Rating, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRatingValue
	}
	var rating models.Rating
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND shop_id = ?", userID, shopID).First(&rating).Error; err != nil {
			return ErrRatingNotFound
		}
		rating.Value = value
		rating.Comment = comment
		return tx.Save(&rating).Error
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// ResetPassword changes a users-table password after verifying the old one.
func (s *UserService) ResetPassword(email, oldPassword, newPassword string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return ErrNotFound
	}
	if !checkPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.Model(&user).Update("password_hash", hash).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
