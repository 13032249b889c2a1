package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"store-rating-api/models"
	"store-rating-api/services"
)

type AuthHandler struct {
	Auth  *services.AuthService
	Admin *services.AdminService
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=user admin shopowner"`
}

// Register creates a regular user account and logs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	bundle, user, err := h.Auth.Register(req.Name, req.Email, req.Password, req.Address)
	if err != nil {
		if err == services.ErrDuplicateEmail {
			fail(c, http.StatusConflict, "User already exists")
			return
		}
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":       "success",
		"accessToken":  bundle.AccessToken,
		"refreshToken": bundle.RefreshToken,
		"expiresIn":    bundle.ExpiresIn,
		"role":         bundle.Role,
		"userId":       bundle.UserID,
		"user":         user,
	})
}

// RegisterShopOwner is the public shop registration: owner plus shop in one go.
func (h *AuthHandler) RegisterShopOwner(c *gin.Context) {
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
	c.JSON(http.StatusCreated, gin.H{
		"status":    "success",
		"shopowner": owner,
		"store":     shop,
	})
}

// Login authenticates against the table matching the requested role.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	bundle, record, err := h.Auth.Login(req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"accessToken":  bundle.AccessToken,
		"refreshToken": bundle.RefreshToken,
		"expiresIn":    bundle.ExpiresIn,
		"role":         bundle.Role,
		"userId":       bundle.UserID,
		"user":         record,
	})
}

// Refresh rotates a refresh token and returns a fresh pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := c.Param("refreshToken")
	if token == "" {
		fail(c, http.StatusBadRequest, "Refresh token required")
		return
	}
	bundle, err := h.Auth.Refresh(token)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"accessToken":  bundle.AccessToken,
		"refreshToken": bundle.RefreshToken,
		"expiresIn":    bundle.ExpiresIn,
		"role":         bundle.Role,
		"userId":       bundle.UserID,
	})
}
