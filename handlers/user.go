package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating-api/middleware"
	"store-rating-api/services"
)

type UserHandler struct {
	Users *services.UserService
	Auth  *services.AuthService
}

type RateRequest struct {
	Value   int    `json:"value" binding:"required"`
	Comment string `json:"comment"`
}

type ResetPasswordRequest struct {
	OldPassword string `json:"opassword" binding:"required"`
	NewPassword string `json:"npassword" binding:"required,min=6"`
}

// ListStores returns all stores with computed average ratings.
func (h *UserHandler) ListStores(c *gin.Context) {
	stores, err := h.Users.ListStores(c.Query("name"), c.Query("address"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "count": len(stores), "stores": stores})
}

// StoreDetails returns one store with its aggregate and the caller's rating.
func (h *UserHandler) StoreDetails(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	shopID, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.Users.StoreDetails(p.ID, shopID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "store": detail})
}

// Rate submits the caller's first rating for a store.
func (h *UserHandler) Rate(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	shopID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	rating, err := h.Users.SubmitRating(p.ID, shopID, req.Value, req.Comment)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "rating": rating})
}

// UpdateRate overwrites the caller's existing rating for a store.
func (h *UserHandler) UpdateRate(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	shopID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	rating, err := h.Users.UpdateRating(p.ID, shopID, req.Value, req.Comment)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "rating": rating})
}

// ResetPassword changes the caller's password after checking the old one.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Users.ResetPassword(p.Email, req.OldPassword, req.NewPassword); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Password updated successfully"})
}

// Logout deactivates the caller's refresh tokens.
func (h *UserHandler) Logout(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if err := h.Auth.Logout(p.ID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Logged out"})
}
