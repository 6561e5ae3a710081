package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loftmanager/internal/models"
)

type OwnerStore struct{ db *gorm.DB }

func NewOwnerStore(db *gorm.DB) *OwnerStore { return &OwnerStore{db: db} }

func (s *OwnerStore) List(ctx context.Context) ([]models.LoftOwner, error) {
	var rows []models.LoftOwner
	err := s.db.WithContext(ctx).Order("name").Find(&rows).Error
	return rows, err
}

func (s *OwnerStore) Get(ctx context.Context, id string) (*models.LoftOwner, error) {
	var o models.LoftOwner
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &o, err
}

func (s *OwnerStore) Create(ctx context.Context, o *models.LoftOwner) error {
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *OwnerStore) Update(ctx context.Context, o *models.LoftOwner) error {
	return s.db.WithContext(ctx).Save(o).Error
}

func (s *OwnerStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LoftOwner{}).Error
}
