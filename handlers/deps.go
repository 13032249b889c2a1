package handlers

import (
	"gorm.io/gorm"

	"store-rating-api/config"
	"store-rating-api/middleware"
	"store-rating-api/services"
)

// Deps wires services into handlers once at startup.
type Deps struct {
	Signer *middleware.Signer
	Auth   *AuthHandler
	Admin  *AdminHandler
	Owner  *ShopOwnerHandler
	User   *UserHandler
}

func NewDeps(db *gorm.DB, cfg *config.Config) *Deps {
	signer := &middleware.Signer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		ExpSeconds: cfg.JWT.ExpSeconds,
	}
	authSvc := services.NewAuthService(db, signer, cfg.Refresh.Months)
	adminSvc := services.NewAdminService(db)
	ownerSvc := services.NewShopOwnerService(db)
	userSvc := services.NewUserService(db)

	return &Deps{
		Signer: signer,
		Auth:   &AuthHandler{Auth: authSvc, Admin: adminSvc},
		Admin:  &AdminHandler{Admin: adminSvc, Auth: authSvc},
		Owner:  &ShopOwnerHandler{Owner: ownerSvc},
		User:   &UserHandler{Users: userSvc, Auth: authSvc},
	}
}
