package auth

import (
	"context"
	"errors"
	"time"

	"loftmanager/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnverifiedEmail    = errors.New("email address not verified")
	ErrSessionNotFound    = errors.New("session expired or invalid")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)

// UserStore is the persistence port for identity records.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new user; a duplicate email maps to ErrEmailTaken.
	Create(ctx context.Context, u *models.User) error
	TouchLastLogin(ctx context.Context, id string) error
	// SetPassword replaces the hash and marks the email verified.
	SetPassword(ctx context.Context, id, hash string) error
	// SetResetToken overwrites any previous reset token for the user.
	SetResetToken(ctx context.Context, email, token string, expires time.Time) error
	GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	// CompleteReset swaps the password hash and clears both reset fields.
	CompleteReset(ctx context.Context, token, hash string) error
}

// SessionStore is the persistence port for bearer sessions.
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	// ResolveToken returns the owning user for a live session, or
	// ErrSessionNotFound when the token is unknown or expired.
	ResolveToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	// DeleteByToken removes the session row; deleting a missing row is not
	// an error (lazy expiry reclamation relies on that).
	DeleteByToken(ctx context.Context, token string) error
}
