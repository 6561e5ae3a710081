package repo

import (
	"context"

	"gorm.io/gorm"

	"loftmanager/internal/models"
)

// UserDirectory serves the read-only user listings the UI needs (assignment
// dropdowns, settings page). Identity mutations go through the auth stores.
type UserDirectory struct{ db *gorm.DB }

func NewUserDirectory(db *gorm.DB) *UserDirectory { return &UserDirectory{db: db} }

func (s *UserDirectory) List(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := s.db.WithContext(ctx).Order("full_name").Find(&rows).Error
	return rows, err
}

func (s *UserDirectory) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}
