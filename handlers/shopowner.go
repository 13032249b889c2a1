package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating-api/middleware"
	"store-rating-api/services"
)

type ShopOwnerHandler struct {
	Owner *services.ShopOwnerService
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type UpdateShopRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Hours       *string `json:"hours"`
	Image       *string `json:"image"`
}

// Dashboard returns all ratings across the caller's shops with the combined
// average.
func (h *ShopOwnerHandler) Dashboard(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	dash, err := h.Owner.Dashboard(p.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// UpdatePassword re-hashes after verifying the current password.
func (h *ShopOwnerHandler) UpdatePassword(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Owner.UpdatePassword(p.ID, req.OldPassword, req.NewPassword); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Password updated successfully"})
}

// GetShop fetches one of the caller's own shops.
func (h *ShopOwnerHandler) GetShop(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	shopID, ok := idParam(c, "id")
	if !ok {
		return
	}
	shop, err := h.Owner.GetShop(p.ID, shopID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "shop": shop})
}

// UpdateShop patches one of the caller's own shops.
func (h *ShopOwnerHandler) UpdateShop(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	shopID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	shop, err := h.Owner.UpdateShop(p.ID, shopID, services.ShopPatch{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		Phone:       req.Phone,
		Hours:       req.Hours,
		Image:       req.Image,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "shop": shop})
}

// DeleteShop removes one of the caller's own shops.
func (h *ShopOwnerHandler) DeleteShop(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	shopID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Owner.DeleteShop(p.ID, shopID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "deletedShopId": shopID})
}

// Profile returns the caller's owner record.
func (h *ShopOwnerHandler) Profile(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	owner, err := h.Owner.Profile(p.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "shopowner": owner})
}

// Logout acknowledges logout; shop owners hold no refresh tokens to revoke.
func (h *ShopOwnerHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Logged out"})
}
