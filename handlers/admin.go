package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"store-rating-api/middleware"
	"store-rating-api/models"
	"store-rating-api/services"
)

type AdminHandler struct {
	Admin *services.AdminService
	Auth  *services.AuthService
}

type AddUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Address  string `json:"address"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type AddShopRequest struct {
	OwnerName     string `json:"ownerName" binding:"required"`
	OwnerEmail    string `json:"ownerEmail" binding:"required,email"`
	OwnerPassword string `json:"ownerPassword" binding:"required,min=6"`
	OwnerAddress  string `json:"ownerAddress"`
	StoreName     string `json:"storeName" binding:"required"`
	StoreAddress  string `json:"storeAddress"`
	Description   string `json:"description"`
	Phone         string `json:"phone"`
	Hours         string `json:"hours"`
	Image         string `json:"image"`
}

func (r AddShopRequest) params() services.ShopParams {
	return services.ShopParams{
		OwnerName:     r.OwnerName,
		OwnerEmail:    r.OwnerEmail,
		OwnerPassword: r.OwnerPassword,
		OwnerAddress:  r.OwnerAddress,
		StoreName:     r.StoreName,
		StoreAddress:  r.StoreAddress,
		Description:   r.Description,
		Phone:         r.Phone,
		Hours:         r.Hours,
		Image:         r.Image,
	}
}

type listUsersQuery struct {
	Search string `form:"search"`
	Role   string `form:"role" binding:"omitempty,oneof=user admin"`
	SortBy string `form:"sortBy"`
	Order  string `form:"order" binding:"omitempty,oneof=asc desc"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

type listStoresQuery struct {
	Search    string  `form:"search"`
	MinRating float64 `form:"minRating" binding:"omitempty,min=0,max=5"`
	MaxRating float64 `form:"maxRating" binding:"omitempty,min=0,max=5"`
	SortBy    string  `form:"sortBy"`
	Order     string  `form:"order" binding:"omitempty,oneof=asc desc"`
	Page      int     `form:"page"`
	Limit     int     `form:"limit"`
}

// Dashboard returns user/store/rating totals with the full ratings detail list.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.Admin.Dashboard()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers is the paginated, filtered user listing.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q listUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	page, err := h.Admin.ListUsers(services.ListQuery{
		Search: q.Search,
		Role:   q.Role,
		SortBy: q.SortBy,
		Order:  q.Order,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListStores is the paginated store listing with computed averages.
func (h *AdminHandler) ListStores(c *gin.Context) {
	var q listStoresQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	page, err := h.Admin.ListStores(services.StoreListQuery{
		Search:    q.Search,
		MinRating: q.MinRating,
		MaxRating: q.MaxRating,
		SortBy:    q.SortBy,
		Order:     q.Order,
		Page:      q.Page,
		Limit:     q.Limit,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetUserDetails returns one user enriched with owner rating when applicable.
func (h *AdminHandler) GetUserDetails(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	details, err := h.Admin.GetUserDetails(id)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// AddUser creates a user (or admin when the role says so).
func (h *AdminHandler) AddUser(c *gin.Context) {
	var req AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.Admin.AddUser(services.AccountParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "user": user})
}

// AddShop creates the shop owner together with the shop.
func (h *AdminHandler) AddShop(c *gin.Context) {
	var req AddShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	owner, shop, err := h.Admin.AddShopOwnerWithShop(req.params())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "shopowner": owner, "store": shop})
}

// AddAdmin creates an admin account.
func (h *AdminHandler) AddAdmin(c *gin.Context) {
	var req AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	admin, err := h.Admin.AddAdmin(services.AccountParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "admin": admin})
}

// ExportRatings streams the full ratings report as an xlsx attachment.
func (h *AdminHandler) ExportRatings(c *gin.Context) {
	f, err := h.Admin.ExportRatings()
	if err != nil {
		serviceError(c, err)
		return
	}
	filename := "ratings-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if _, err := f.WriteTo(c.Writer); err != nil {
		log.Error().Err(err).Msg("write ratings export")
	}
}

// Logout deactivates the caller's refresh tokens.
func (h *AdminHandler) Logout(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if err := h.Auth.Logout(p.ID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Logged out"})
}
