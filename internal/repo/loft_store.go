package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loftmanager/internal/models"
)

type LoftStore struct{ db *gorm.DB }

func NewLoftStore(db *gorm.DB) *LoftStore { return &LoftStore{db: db} }

func (s *LoftStore) List(ctx context.Context) ([]models.Loft, error) {
	var rows []models.Loft
	err := s.db.WithContext(ctx).Preload("Owner").Order("name").Find(&rows).Error
	return rows, err
}

func (s *LoftStore) Get(ctx context.Context, id string) (*models.Loft, error) {
	var l models.Loft
	err := s.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &l, err
}

func (s *LoftStore) Create(ctx context.Context, l *models.Loft) error {
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *LoftStore) Update(ctx context.Context, l *models.Loft) error {
	return s.db.WithContext(ctx).Save(l).Error
}

func (s *LoftStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Loft{}).Error
}
