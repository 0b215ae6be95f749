package repository

import (
	"errors"

	"gorm.io/gorm"
)

// store is the generic by-id lookup shared by the entity repositories.
// Each repository composes one per entity type instead of re-stating the
// same First/ErrRecordNotFound dance.
type store[T any] struct {
	db *gorm.DB
}

func (s store[T]) byID(id uint) (*T, error) {
	var out T
	if err := s.db.First(&out, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}
