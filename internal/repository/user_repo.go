package repository

import (
	"errors"

	"github.com/miroshx/task-tracker/internal/models"
	"gorm.io/gorm"
)

// UserRepository owns user lookup and account mutations. Passwords reaching
// this layer are already hashed.
type UserRepository struct {
	store[models.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{store[models.User]{db: db}}
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	return r.byID(id)
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create registers a new user. The username must be free.
func (r *UserRepository) Create(username, hashedPassword string) (*models.User, error) {
	var user models.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}
		user = models.User{Username: username, Password: hashedPassword}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRole sets the role of an existing user.
func (r *UserRepository) UpdateRole(id uint, role models.UserRole) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := (store[models.User]{db: tx}).byID(id); err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Update("role", role).Error
	})
}

// UpdateUsername renames a user; the new name must not be in use.
func (r *UserRepository) UpdateUsername(id uint, username string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if _, err := (store[models.User]{db: tx}).byID(id); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Update("username", username).Error
	})
}

// UpdatePassword stores a new (already hashed) password for the user.
func (r *UserRepository) UpdatePassword(id uint, hashedPassword string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("password", hashedPassword).Error
}

// List returns all users.
func (r *UserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
