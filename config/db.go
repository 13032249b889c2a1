package config

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"store-rating-api/models"
)

// OpenDB connects to the sqlite database and migrates all models.
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.ShopOwner{},
		&models.Shop{},
		&models.Rating{},
		&models.RefreshToken{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
