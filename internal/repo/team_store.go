package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loftmanager/internal/models"
)

type TeamStore struct{ db *gorm.DB }

func NewTeamStore(db *gorm.DB) *TeamStore { return &TeamStore{db: db} }

func (s *TeamStore) List(ctx context.Context) ([]models.Team, error) {
	var rows []models.Team
	err := s.db.WithContext(ctx).Order("name").Find(&rows).Error
	return rows, err
}

func (s *TeamStore) Get(ctx context.Context, id string) (*models.Team, error) {
	var t models.Team
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &t, err
}

func (s *TeamStore) Create(ctx context.Context, t *models.Team) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *TeamStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Team{}).Error
}

func (s *TeamStore) AddMember(ctx context.Context, teamID, userID string) error {
	return s.db.WithContext(ctx).Create(&models.TeamMember{TeamID: teamID, UserID: userID}).Error
}

func (s *TeamStore) RemoveMember(ctx context.Context, teamID, userID string) error {
	return s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{}).Error
}

// MemberRow carries the joined user fields for the teams page.
type MemberRow struct {
	UserID   string
	Email    string
	FullName string
}

func (s *TeamStore) ListMembers(ctx context.Context, teamID string) ([]MemberRow, error) {
	var rows []MemberRow
	err := s.db.WithContext(ctx).
		Table("team_members tm").
		Select("tm.user_id, u.email, u.full_name").
		Joins("JOIN users u ON u.id = tm.user_id").
		Where("tm.team_id = ?", teamID).
		Order("u.full_name").
		Scan(&rows).Error
	return rows, err
}
