package repo

import (
	"context"

	"gorm.io/gorm"

	"loftmanager/internal/models"
)

type CategoryStore struct{ db *gorm.DB }

func NewCategoryStore(db *gorm.DB) *CategoryStore { return &CategoryStore{db: db} }

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := s.db.WithContext(ctx).Order("name").Find(&rows).Error
	return rows, err
}

func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}
