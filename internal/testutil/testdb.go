package testutil

import (
	"github.com/miroshx/task-tracker/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}, &models.TaskHistory{}); err != nil {
		return nil, err
	}
	return db, nil
}

// SeedUser inserts a user with the given role and returns it.
func SeedUser(db *gorm.DB, username string, role models.UserRole) (*models.User, error) {
	user := models.User{Username: username, Password: "x", Role: role}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
