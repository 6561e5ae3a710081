package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

const bcryptCost = 12

// AuthSession is a resolved caller identity.
type AuthSession struct {
	User  models.User
	Token string
}

// SchemaEnsurer lets the authenticator trigger first-use provisioning before
// touching any table.
type SchemaEnsurer interface {
	Ensure(ctx context.Context) error
}

// Auditor records security-relevant events; implementations must never fail
// the calling operation.
type Auditor interface {
	Record(ctx context.Context, actor, action string, details map[string]any)
}

type Service struct {
	users    UserStore
	sessions SessionStore
	schema   SchemaEnsurer // optional
	audit    Auditor       // optional

	sessionTTL    time.Duration
	resetTTL      time.Duration
	secureCookies bool

	// demoFallback upgrades legacy rows without a password hash on login.
	// Demo/bootstrap affordance only; off by default.
	demoFallback bool
	demoPassword string

	nowFunc func() time.Time
}

type ServiceConfig struct {
	SessionTTL    time.Duration
	ResetTTL      time.Duration
	SecureCookies bool
	DemoFallback  bool
	DemoPassword  string
	Schema        SchemaEnsurer
	Audit         Auditor
}

func NewService(users UserStore, sessions SessionStore, cfg ServiceConfig) (*Service, error) {
	if users == nil || sessions == nil {
		return nil, fmt.Errorf("user and session stores are required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session TTL must be > 0")
	}
	if cfg.ResetTTL <= 0 {
		return nil, fmt.Errorf("reset TTL must be > 0")
	}
	return &Service{
		users:         users,
		sessions:      sessions,
		schema:        cfg.Schema,
		audit:         cfg.Audit,
		sessionTTL:    cfg.SessionTTL,
		resetTTL:      cfg.ResetTTL,
		secureCookies: cfg.SecureCookies,
		demoFallback:  cfg.DemoFallback,
		demoPassword:  cfg.DemoPassword,
		nowFunc:       time.Now,
	}, nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *Service) ensureSchema(ctx context.Context) error {
	if s.schema == nil {
		return nil
	}
	return s.schema.Ensure(ctx)
}

func (s *Service) record(ctx context.Context, actor, action string, details map[string]any) {
	if s.audit != nil {
		s.audit.Record(ctx, actor, action, details)
	}
}

// createSession issues a fresh bearer token and touches last_login.
// The steps are deliberately not wrapped in a transaction; a crash between
// them leaves an orphaned session that is simply never presented.
func (s *Service) createSession(ctx context.Context, userID string) (string, error) {
	token, err := generateToken(32)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	sess := &models.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: s.nowFunc().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if err := s.users.TouchLastLogin(ctx, userID); err != nil {
		// Not fatal for the login itself.
		logs.Logger.Warnf("touch last_login for %s: %v", userID, err)
	}
	return token, nil
}

// Login authenticates by email and password and returns a session token for
// cookie storage.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return "", err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if u.PasswordHash == nil || *u.PasswordHash == "" {
		if !s.demoFallback {
			return "", ErrInvalidCredentials
		}
		// Legacy rows without a hash get the configured demo credential.
		hash, err := HashPassword(s.demoPassword)
		if err != nil {
			return "", err
		}
		if err := s.users.SetPassword(ctx, u.ID, hash); err != nil {
			return "", err
		}
		u.PasswordHash = &hash
		u.EmailVerified = true
	}

	if !u.EmailVerified {
		return "", ErrUnverifiedEmail
	}
	if !VerifyPassword(password, *u.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := s.createSession(ctx, u.ID)
	if err != nil {
		return "", err
	}
	s.record(ctx, u.Email, "login", nil)
	return token, nil
}

// Register creates a verified user and logs them straight in.
func (s *Service) Register(ctx context.Context, email, password, fullName string, role models.UserRole) (string, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return "", err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return "", err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	u := &models.User{
		Email:         email,
		FullName:      fullName,
		Role:          role,
		PasswordHash:  &hash,
		EmailVerified: true, // no real verification flow
	}
	// Create may still race another registration; the unique index settles it.
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}

	token, err := s.createSession(ctx, u.ID)
	if err != nil {
		return "", err
	}
	s.record(ctx, u.Email, "register", map[string]any{"role": string(role)})
	return token, nil
}

// Resolve maps a bearer token to its owning user. An expired or unknown token
// is reclaimed opportunistically and reported as ErrSessionNotFound.
func (s *Service) Resolve(ctx context.Context, token string) (*AuthSession, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	u, err := s.sessions.ResolveToken(ctx, token, s.nowFunc())
	if errors.Is(err, ErrSessionNotFound) {
		if derr := s.sessions.DeleteByToken(ctx, token); derr != nil {
			logs.Logger.Warnf("stale session cleanup: %v", derr)
		}
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &AuthSession{User: *u, Token: token}, nil
}

// GetSession resolves the caller identity from the request cookie.
// A nil result means Anonymous; store errors are logged and swallowed so a
// broken lookup fails toward re-authentication.
func (s *Service) GetSession(r *http.Request) *AuthSession {
	token := tokenFromRequest(r)
	if token == "" {
		return nil
	}
	sess, err := s.Resolve(r.Context(), token)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			logs.Logger.Errorf("session retrieval: %v", err)
		}
		return nil
	}
	return sess
}

// Logout deletes the caller's session row (tolerating absence) and clears
// the cookie. The caller is expected to redirect to the login page.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r)
	if token != "" {
		if err := s.sessions.DeleteByToken(r.Context(), token); err != nil {
			logs.Logger.Warnf("logout session delete: %v", err)
		}
		s.record(r.Context(), "-", "logout", nil)
	}
	s.ClearSessionCookie(w)
}

// RequestPasswordReset attaches a fresh 1-hour token to the user row.
// Unknown emails report success so account existence does not leak.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}
	token, err := generateToken(32)
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, email, token, s.nowFunc().Add(s.resetTTL)); err != nil {
		return err
	}
	s.record(ctx, email, "password_reset_requested", nil)
	return nil
}

// ResetPassword consumes a valid reset token: swaps the hash and clears both
// reset fields.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	u, err := s.users.GetByResetToken(ctx, token, s.nowFunc())
	if err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.CompleteReset(ctx, token, hash); err != nil {
		return err
	}
	s.record(ctx, u.Email, "password_reset", nil)
	return nil
}
