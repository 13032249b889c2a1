package services_test

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"store-rating-api/config"
	"store-rating-api/middleware"
	"store-rating-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func newTestSigner() *middleware.Signer {
	return &middleware.Signer{Secret: []byte("test-secret"), Issuer: "test", ExpSeconds: 3600}
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func seedUser(t *testing.T, db *gorm.DB, name, email, password string, role models.Role) models.User {
	t.Helper()
	u := models.User{Name: name, Email: email, PasswordHash: mustHash(t, password), Role: role}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func seedOwnerWithShop(t *testing.T, db *gorm.DB, ownerEmail, shopName string) (models.ShopOwner, models.Shop) {
	t.Helper()
	owner := models.ShopOwner{Name: "Owner " + shopName, Email: ownerEmail, PasswordHash: mustHash(t, "ownerpass"), Role: models.RoleShopOwner}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seed owner %s: %v", ownerEmail, err)
	}
	shop := models.Shop{OwnerID: owner.ID, Name: shopName, Address: "1 Main St"}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("seed shop %s: %v", shopName, err)
	}
	return owner, shop
}

// raceTestDB opens a DB without gorm's per-create transaction so a row
// injected from a second connection mid-create cannot deadlock sqlite.
func raceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return newTestDB(t).Session(&gorm.Session{SkipDefaultTransaction: true})
}

// injectConcurrentUser slips a conflicting users row in after the duplicate
// pre-check has passed but before the insert runs, reproducing two signups
// racing for the same email.
func injectConcurrentUser(t *testing.T, db *gorm.DB, email string) {
	t.Helper()
	done := false
	err := db.Callback().Create().Before("gorm:create").Register("inject_concurrent_user", func(tx *gorm.DB) {
		if done || tx.Statement.Table != "users" {
			return
		}
		done = true
		now := time.Now()
		res := tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO users (name, email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, 'user', ?, ?)",
			"First Arrival", email, "x", now, now)
		if res.Error != nil {
			t.Errorf("inject concurrent user: %v", res.Error)
		}
	})
	if err != nil {
		t.Fatalf("register create callback: %v", err)
	}
}

func seedRating(t *testing.T, db *gorm.DB, userID, shopID uint, value int, comment string) models.Rating {
	t.Helper()
	r := models.Rating{UserID: userID, ShopID: shopID, Value: value, Comment: comment}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed rating user=%d shop=%d: %v", userID, shopID, err)
	}
	return r
}
