package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"store-rating-api/models"
)

type Claims struct {
	UserID uint        `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller, resolved once by AuthRequired and
// passed explicitly to every service call. No other per-request user state.
type Principal struct {
	ID    uint
	Email string
	Role  models.Role
}

const principalKey = "principal"

// Signer issues and verifies HS256 access tokens.
type Signer struct {
	Secret     []byte
	Issuer     string
	ExpSeconds int
}

// Sign creates a signed JWT for the given subject.
func (s *Signer) Sign(id uint, email string, role models.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: id,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.ExpSeconds) * time.Second)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// Parse validates a token string and returns its claims.
func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// AuthRequired validates the bearer token and injects the principal.
// All auth failures answer 401 with the uniform fail payload.
func AuthRequired(signer *Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		claims, err := signer.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "fail", "message": "Invalid or expired token"})
			c.Abort()
			return
		}
		c.Set(principalKey, Principal{ID: claims.UserID, Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// RoleRequired enforces that the caller has one of the allowed roles.
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := c.Get(principalKey)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"status": "fail", "message": "No authenticated principal"})
			c.Abort()
			return
		}
		callerRole := p.(Principal).Role
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "fail",
			"message": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.Role) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// GetPrincipal extracts the authenticated caller from context.
func GetPrincipal(c *gin.Context) Principal {
	val, _ := c.Get(principalKey)
	return val.(Principal)
}
