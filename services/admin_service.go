package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"store-rating-api/models"
)

// AdminService is the role-gated CRUD surface over users, shops and ratings.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// AccountParams are the fields needed to create a users-table account.
type AccountParams struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     models.Role
}

// ShopParams create a shop owner and their shop in one step. Shops are never
// created independently of an owner.
type ShopParams struct {
	OwnerName     string
	OwnerEmail    string
	OwnerPassword string
	OwnerAddress  string
	StoreName     string
	StoreAddress  string
	Description   string
	Phone         string
	Hours         string
	Image         string
}

// ListQuery is the common search/sort/page shape for admin listings.
type ListQuery struct {
	Search string
	Role   string
	SortBy string
	Order  string
	Page   int
	Limit  int
}

// StoreListQuery adds the rating-range filter for store listings.
type StoreListQuery struct {
	Search    string
	MinRating float64
	MaxRating float64
	SortBy    string
	Order     string
	Page      int
	Limit     int
}

type UserPage struct {
	Users      []models.User `json:"users"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

type OwnerSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RatingDetail struct {
	ID        uint      `json:"id"`
	Value     int       `json:"value"`
	Comment   string    `json:"comment"`
	UserID    uint      `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	ShopID    uint      `json:"shopId"`
	ShopName  string    `json:"shopName"`
	CreatedAt time.Time `json:"createdAt"`
}

type StoreRow struct {
	ID           uint           `json:"id"`
	Name         string         `json:"name"`
	Address      string         `json:"address"`
	Owner        OwnerSummary   `json:"owner"`
	Rating       float64        `json:"rating"`
	TotalRatings int64          `json:"totalRatings"`
	Ratings      []RatingDetail `json:"ratings"`
	CreatedAt    time.Time      `json:"createdAt"`
}

type StorePage struct {
	Stores     []StoreRow `json:"stores"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

type UserDetails struct {
	ID      uint        `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Address string      `json:"address"`
	Role    models.Role `json:"role"`
	Rating  *float64    `json:"rating"`
}

type DashboardStats struct {
	TotalUsers     int64          `json:"totalUsers"`
	TotalStores    int64          `json:"totalStores"`
	TotalRatings   int64          `json:"totalRatings"`
	RatingsDetails []RatingDetail `json:"ratingsDetails"`
}

// AddUser creates a regular user (or admin, when Role says so).
func (s *AdminService) AddUser(p AccountParams) (*models.User, error) {
	if p.Role == "" {
		p.Role = models.RoleUser
	}
	var existing models.User
	if err := s.db.Where("email = ?", p.Email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	}
	hash, err := hashPassword(p.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{Name: p.Name, Email: p.Email, PasswordHash: hash, Address: p.Address, Role: p.Role}
	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		log.Error().Err(err).Str("email", p.Email).Msg("admin add user failed")
		return nil, err
	}
	return &user, nil
}

// AddAdmin is AddUser with the role pinned.
func (s *AdminService) AddAdmin(p AccountParams) (*models.User, error) {
	p.Role = models.RoleAdmin
	return s.AddUser(p)
}

// AddShopOwnerWithShop creates the owner and the shop atomically. A duplicate
// owner email fails before anything is written.
func (s *AdminService) AddShopOwnerWithShop(p ShopParams) (*models.ShopOwner, *models.Shop, error) {
	var owner models.ShopOwner
	var shop models.Shop
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ShopOwner
		if err := tx.Where("email = ?", p.OwnerEmail).First(&existing).Error; err == nil {
			return ErrDuplicateEmail
		}
		hash, err := hashPassword(p.OwnerPassword)
		if err != nil {
			return err
		}
		owner = models.ShopOwner{
			Name:         p.OwnerName,
			Email:        p.OwnerEmail,
			PasswordHash: hash,
			Address:      p.OwnerAddress,
			Role:         models.RoleShopOwner,
		}
		if err := tx.Create(&owner).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateEmail
			}
			return err
		}
		shop = models.Shop{
			OwnerID:     owner.ID,
			Name:        p.StoreName,
			Address:     p.StoreAddress,
			Description: p.Description,
			Phone:       p.Phone,
			Hours:       p.Hours,
			Image:       p.Image,
		}
		return tx.Create(&shop).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &owner, &shop, nil
}

var userSortFields = map[string]string{
	"name":       "name",
	"email":      "email",
	"address":    "address",
	"role":       "role",
	"created_at": "created_at",
}

// ListUsers pages through the users table with free-text search over
// name/email/address, an optional role filter and an allow-listed sort field.
func (s *AdminService) ListUsers(q ListQuery) (*UserPage, error) {
	page, limit := normalizePage(q.Page, q.Limit)

	query := s.db.Model(&models.User{})
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(address) LIKE ?", needle, needle, needle)
	}
	if q.Role != "" {
		query = query.Where("role = ?", q.Role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	field, ok := userSortFields[q.SortBy]
	if !ok {
		field = "name"
	}
	order := field
	if strings.EqualFold(q.Order, "desc") {
		order += " DESC"
	}

	var users []models.User
	err := query.Order(order).Offset((page - 1) * limit).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Users:      users,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// ListStores pages through shops enriched with their computed aggregate,
// owner summary and full rating rows. The rating range filter and the rating
// sort operate on the computed average, so filtering, sorting and paging over
// stores happen after the single grouped aggregate query.
func (s *AdminService) ListStores(q StoreListQuery) (*StorePage, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	if q.MaxRating <= 0 {
		q.MaxRating = 5
	}

	query := s.db.Preload("Owner")
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", needle, needle)
	}
	var shops []models.Shop
	if err := query.Find(&shops).Error; err != nil {
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
	details, err := s.ratingDetails(s.db.Where("shop_id IN ?", ids))
	if err != nil {
		return nil, err
	}
	byShop := make(map[uint][]RatingDetail)
	for _, d := range details {
		byShop[d.ShopID] = append(byShop[d.ShopID], d)
	}

	rows := make([]StoreRow, 0, len(shops))
	for _, shop := range shops {
		agg := aggs[shop.ID]
		if agg.Average < q.MinRating || agg.Average > q.MaxRating {
			continue
		}
		ratings := byShop[shop.ID]
		if ratings == nil {
			ratings = []RatingDetail{}
		}
		rows = append(rows, StoreRow{
			ID:      shop.ID,
			Name:    shop.Name,
			Address: shop.Address,
			Owner: OwnerSummary{
				ID:    shop.Owner.ID,
				Name:  shop.Owner.Name,
				Email: shop.Owner.Email,
			},
			Rating:       agg.Average,
			TotalRatings: agg.Count,
			Ratings:      ratings,
			CreatedAt:    shop.CreatedAt,
		})
	}

	sortStoreRows(rows, q.SortBy, strings.EqualFold(q.Order, "desc"))

	total := int64(len(rows))
	start := (page - 1) * limit
	if start > len(rows) {
		start = len(rows)
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}

	return &StorePage{
		Stores:     rows[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// GetUserDetails returns one user; when a shop owner shares the email, the
// combined average across that owner's shops is included.
func (s *AdminService) GetUserDetails(id uint) (*UserDetails, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, ErrNotFound
	}
	details := &UserDetails{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Address: user.Address,
		Role:    user.Role,
	}

	var owner models.ShopOwner
	if err := s.db.Where("email = ?", user.Email).First(&owner).Error; err == nil {
		var shopIDs []uint
		if err := s.db.Model(&models.Shop{}).Where("owner_id = ?", owner.ID).Pluck("id", &shopIDs).Error; err != nil {
			return nil, err
		}
		if len(shopIDs) > 0 {
			agg, err := aggregateAcrossShops(s.db, shopIDs)
			if err != nil {
				return nil, err
			}
			details.Rating = &agg.Average
		}
	}
	return details, nil
}

// Dashboard returns the totals plus the full ratings detail list.
func (s *AdminService) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}
	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Shop{}).Count(&stats.TotalStores).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Rating{}).Count(&stats.TotalRatings).Error; err != nil {
		return nil, err
	}
	details, err := s.ratingDetails(s.db)
	if err != nil {
		return nil, err
	}
	stats.RatingsDetails = details
	return stats, nil
}

// ExportRatings builds an xlsx workbook of every rating for offline review.
func (s *AdminService) ExportRatings() (*excelize.File, error) {
	details, err := s.ratingDetails(s.db)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"ID", "Store", "User", "Email", "Value", "Comment", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, d := range details {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), d.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), d.ShopName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), d.UserName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), d.UserEmail)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), d.Value)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), d.Comment)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), d.CreatedAt.Format(time.RFC3339))
	}
	return f, nil
}

func (s *AdminService) ratingDetails(scope *gorm.DB) ([]RatingDetail, error) {
	var ratings []models.Rating
	if err := scope.Preload("User").Preload("Shop").Order("created_at desc").Find(&ratings).Error; err != nil {
		return nil, err
	}
	details := make([]RatingDetail, 0, len(ratings))
	for _, r := range ratings {
		details = append(details, RatingDetail{
			ID:        r.ID,
			Value:     r.Value,
			Comment:   r.Comment,
			UserID:    r.UserID,
			UserName:  r.User.Name,
			UserEmail: r.User.Email,
			ShopID:    r.ShopID,
			ShopName:  r.Shop.Name,
			CreatedAt: r.CreatedAt,
		})
	}
	return details, nil
}

func sortStoreRows(rows []StoreRow, sortBy string, desc bool) {
	var less func(a, b StoreRow) bool
	switch sortBy {
	case "address":
		less = func(a, b StoreRow) bool { return a.Address < b.Address }
	case "rating":
		less = func(a, b StoreRow) bool { return a.Rating < b.Rating }
	case "created_at":
		less = func(a, b StoreRow) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		less = func(a, b StoreRow) bool { return a.Name < b.Name }
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
