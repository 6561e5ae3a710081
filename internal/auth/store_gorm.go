package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"loftmanager/internal/models"
)

type GormUserStore struct{ db *gorm.DB }

func NewGormUserStore(db *gorm.DB) *GormUserStore { return &GormUserStore{db: db} }

func (s *GormUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Create(u).Error
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (s *GormUserStore) TouchLastLogin(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", time.Now().UTC()).Error
}

func (s *GormUserStore) SetPassword(ctx context.Context, id, hash string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":  hash,
			"email_verified": true,
		}).Error
}

func (s *GormUserStore) SetResetToken(ctx context.Context, email, token string, expires time.Time) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]any{
			"reset_token":         token,
			"reset_token_expires": expires,
		}).Error
}

func (s *GormUserStore) GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expires > ?", token, now).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResetTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) CompleteReset(ctx context.Context, token, hash string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_token = ?", token).
		Updates(map[string]any{
			"password_hash":       hash,
			"reset_token":         nil,
			"reset_token_expires": nil,
		}).Error
}

type GormSessionStore struct{ db *gorm.DB }

func NewGormSessionStore(db *gorm.DB) *GormSessionStore { return &GormSessionStore{db: db} }

func (s *GormSessionStore) Create(ctx context.Context, sess *models.Session) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

func (s *GormSessionStore) ResolveToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).Preload("User").
		Where("token = ? AND expires_at > ?", token, now).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess.User, nil
}

func (s *GormSessionStore) DeleteByToken(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
