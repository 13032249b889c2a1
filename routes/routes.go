package routes

import (
	"github.com/gin-gonic/gin"

	"store-rating-api/handlers"
	"store-rating-api/middleware"
	"store-rating-api/models"
)

func SetupRoutes(r *gin.Engine, d *handlers.Deps) {
	// ── Public routes ──────────────────────────────────────────────
	auth := r.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/register-shopowner", d.Auth.RegisterShopOwner)
		auth.POST("/login", d.Auth.Login)
		auth.GET("/refresh/:refreshToken", d.Auth.Refresh)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(d.Signer), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard", d.Admin.Dashboard)
		admin.GET("/users", d.Admin.ListUsers)
		admin.GET("/users/:id", d.Admin.GetUserDetails)
		admin.GET("/stores", d.Admin.ListStores)
		admin.POST("/add-user", d.Admin.AddUser)
		admin.POST("/add-shop", d.Admin.AddShop)
		admin.POST("/add-admin", d.Admin.AddAdmin)
		admin.GET("/export/ratings", d.Admin.ExportRatings)
		admin.POST("/logout", d.Admin.Logout)
	}

	// ── Shop owner routes ──────────────────────────────────────────
	owner := r.Group("/shopowner")
	owner.Use(middleware.AuthRequired(d.Signer), middleware.RoleRequired(models.RoleShopOwner))
	{
		owner.GET("/dashboard", d.Owner.Dashboard)
		owner.PATCH("/update-password", d.Owner.UpdatePassword)
		owner.GET("/profile", d.Owner.Profile)
		owner.GET("/shop/:id", d.Owner.GetShop)
		owner.PUT("/shop/:id", d.Owner.UpdateShop)
		owner.DELETE("/shop/:id", d.Owner.DeleteShop)
		owner.POST("/logout", d.Owner.Logout)
	}

	// ── User routes ────────────────────────────────────────────────
	user := r.Group("/user")
	user.Use(middleware.AuthRequired(d.Signer), middleware.RoleRequired(models.RoleUser, models.RoleAdmin))
	{
		user.GET("/stores", d.User.ListStores)
		user.GET("/stores/:id", d.User.StoreDetails)
		user.POST("/stores/:id/rate", d.User.Rate)
		user.POST("/stores/:id/rate/update", d.User.UpdateRate)
		user.POST("/resetpassword", d.User.ResetPassword)
		user.POST("/logout", d.User.Logout)
	}
}
