package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"store-rating-api/middleware"
	"store-rating-api/models"
)

// AuthService validates credentials and issues access/refresh token pairs.
// Refresh tokens are opaque uuid strings persisted in the refresh_tokens
// table; only users-table principals get one, shop owners receive an access
// token only.
type AuthService struct {
	db            *gorm.DB
	signer        *middleware.Signer
	refreshMonths int
}

func NewAuthService(db *gorm.DB, signer *middleware.Signer, refreshMonths int) *AuthService {
	return &AuthService{db: db, signer: signer, refreshMonths: refreshMonths}
}

// TokenBundle is what every successful auth operation returns.
type TokenBundle struct {
	AccessToken  string      `json:"accessToken"`
	ExpiresIn    int         `json:"expiresIn"`
	Role         models.Role `json:"role"`
	UserID       uint        `json:"userId"`
	RefreshToken string      `json:"refreshToken,omitempty"`
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Login looks up the credential record in the table matching role: the
// shop_owners table for role=shopowner, the users table otherwise. The stored
// role must also match, so a user cannot log in claiming admin.
func (s *AuthService) Login(email, password string, role models.Role) (*TokenBundle, interface{}, error) {
	if role == models.RoleShopOwner {
		var owner models.ShopOwner
		if err := s.db.Where("email = ?", email).First(&owner).Error; err != nil {
			return nil, nil, ErrInvalidCredentials
		}
		if !checkPassword(owner.PasswordHash, password) {
			return nil, nil, ErrInvalidCredentials
		}
		token, err := s.signer.Sign(owner.ID, owner.Email, models.RoleShopOwner)
		if err != nil {
			return nil, nil, err
		}
		bundle := &TokenBundle{AccessToken: token, ExpiresIn: s.signer.ExpSeconds, Role: models.RoleShopOwner, UserID: owner.ID}
		return bundle, owner, nil
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.Role != role {
		return nil, nil, ErrInvalidCredentials
	}
	if !checkPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}
	bundle, err := s.issueUserTokens(s.db, &user)
	if err != nil {
		return nil, nil, err
	}
	return bundle, user, nil
}

// Register creates a users-table account and logs it in.
func (s *AuthService) Register(name, email, password, address string) (*TokenBundle, *models.User, error) {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, nil, ErrDuplicateEmail
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, nil, err
	}
	user := models.User{Name: name, Email: email, PasswordHash: hash, Address: address, Role: models.RoleUser}
	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, nil, ErrDuplicateEmail
		}
		log.Error().Err(err).Str("email", email).Msg("create user failed")
		return nil, nil, err
	}
	bundle, err := s.issueUserTokens(s.db, &user)
	if err != nil {
		return nil, nil, err
	}
	return bundle, &user, nil
}

// Refresh rotates a refresh token: the presented row must be active and
// unexpired, the old row is deleted and a fresh one inserted in the same
// transaction, and a new access token is signed for the owning user.
func (s *AuthService) Refresh(token string) (*TokenBundle, error) {
	var bundle *TokenBundle
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var row models.RefreshToken
		err := tx.Preload("User").
			Where("token = ? AND active = ? AND expires_at > ?", token, true, time.Now()).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenNotFound
			}
			return err
		}
		if err := tx.Delete(&models.RefreshToken{}, row.ID).Error; err != nil {
			return err
		}
		bundle, err = s.issueUserTokens(tx, &row.User)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

// Logout deactivates every refresh token the user still holds.
func (s *AuthService) Logout(userID uint) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Update("active", false).Error
}

func (s *AuthService) issueUserTokens(tx *gorm.DB, user *models.User) (*TokenBundle, error) {
	access, err := s.signer.Sign(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh := models.RefreshToken{
		Token:     uuid.NewString(),
		Active:    true,
		ExpiresAt: time.Now().AddDate(0, s.refreshMonths, 0),
		UserID:    user.ID,
	}
	if err := tx.Create(&refresh).Error; err != nil {
		return nil, err
	}
	return &TokenBundle{
		AccessToken:  access,
		ExpiresIn:    s.signer.ExpSeconds,
		Role:         user.Role,
		UserID:       user.ID,
		RefreshToken: refresh.Token,
	}, nil
}
