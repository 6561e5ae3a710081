package auth

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

func TestMain(m *testing.M) {
	logs.Init(logs.Options{Level: "error"})
	os.Exit(m.Run())
}

// ---------- in-memory fakes ----------

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[string]*models.User // by ID
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("u-%d", f.nextID)
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) TouchLastLogin(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return ErrUserNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func (f *fakeUserStore) SetPassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = &hash
	u.EmailVerified = true
	return nil
}

func (f *fakeUserStore) SetResetToken(_ context.Context, email, token string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u.ResetToken = &token
			u.ResetTokenExpires = &expires
			return nil
		}
	}
	return ErrUserNotFound
}

func (f *fakeUserStore) GetByResetToken(_ context.Context, token string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetTokenExpires != nil && u.ResetTokenExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrResetTokenInvalid
}

func (f *fakeUserStore) CompleteReset(_ context.Context, token, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			u.PasswordHash = &hash
			u.ResetToken = nil
			u.ResetTokenExpires = nil
			return nil
		}
	}
	return ErrResetTokenInvalid
}

// seed inserts a user directly, bypassing Register.
func (f *fakeUserStore) seed(t *testing.T, email, password string, role models.UserRole, verified bool) string {
	t.Helper()
	u := &models.User{Email: email, FullName: "Test User", Role: role, EmailVerified: verified}
	if password != "" {
		hash, err := HashPassword(password)
		require.NoError(t, err)
		u.PasswordHash = &hash
	}
	require.NoError(t, f.Create(context.Background(), u))
	return u.ID
}

type fakeSessionStore struct {
	mu    sync.Mutex
	rows  map[string]models.Session // by token
	users *fakeUserStore
}

func newFakeSessionStore(users *fakeUserStore) *fakeSessionStore {
	return &fakeSessionStore{rows: map[string]models.Session{}, users: users}
}

func (f *fakeSessionStore) Create(_ context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[s.Token] = *s
	return nil
}

func (f *fakeSessionStore) ResolveToken(_ context.Context, token string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	sess, ok := f.rows[token]
	f.mu.Unlock()
	if !ok || !sess.ExpiresAt.After(now) {
		return nil, ErrSessionNotFound
	}
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	u, ok := f.users.users[sess.UserID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeSessionStore) DeleteByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, token)
	return nil
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type testEnv struct {
	users    *fakeUserStore
	sessions *fakeSessionStore
	svc      *Service
}

func newTestEnv(t *testing.T, mutate func(cfg *ServiceConfig)) *testEnv {
	t.Helper()
	users := newFakeUserStore()
	sessions := newFakeSessionStore(users)
	cfg := ServiceConfig{
		SessionTTL: 7 * 24 * time.Hour,
		ResetTTL:   time.Hour,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	svc, err := NewService(users, sessions, cfg)
	require.NoError(t, err)
	return &testEnv{users: users, sessions: sessions, svc: svc}
}

// ---------- tests ----------

func TestLoginAndResolve(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.users.seed(t, "admin@loftmanager.com", "password123", models.RoleAdmin, true)

	token, err := env.svc.Login(ctx, "admin@loftmanager.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := env.svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "admin@loftmanager.com", sess.User.Email)
	require.Equal(t, models.RoleAdmin, sess.User.Role)
	require.Equal(t, token, sess.Token)

	env.users.mu.Lock()
	lastLogin := env.users.users[id].LastLogin
	env.users.mu.Unlock()
	require.NotNil(t, lastLogin, "login must touch last_login")
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.users.seed(t, "user@loftmanager.com", "password123", models.RoleMember, true)
	env.users.seed(t, "unverified@loftmanager.com", "password123", models.RoleMember, false)

	_, err := env.svc.Login(ctx, "missing@loftmanager.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, "user@loftmanager.com", "wrongpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, "unverified@loftmanager.com", "password123")
	require.ErrorIs(t, err, ErrUnverifiedEmail)

	require.Zero(t, env.sessions.count(), "failed logins must not leave sessions behind")
}

func TestLoginLegacyRowWithoutHash(t *testing.T) {
	ctx := context.Background()

	// Fallback off: a row without a hash cannot log in.
	env := newTestEnv(t, nil)
	env.users.seed(t, "legacy@loftmanager.com", "", models.RoleMember, true)
	_, err := env.svc.Login(ctx, "legacy@loftmanager.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Fallback on: the row is upgraded to the configured credential.
	env = newTestEnv(t, func(cfg *ServiceConfig) {
		cfg.DemoFallback = true
		cfg.DemoPassword = "password123"
	})
	id := env.users.seed(t, "legacy@loftmanager.com", "", models.RoleMember, false)

	token, err := env.svc.Login(ctx, "legacy@loftmanager.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	env.users.mu.Lock()
	u := env.users.users[id]
	require.NotNil(t, u.PasswordHash)
	require.True(t, u.EmailVerified)
	env.users.mu.Unlock()
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	token, err := env.svc.Register(ctx, "new@loftmanager.com", "secret1", "New User", models.RoleManager)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = env.svc.Register(ctx, "new@loftmanager.com", "other99", "Other User", models.RoleMember)
	require.ErrorIs(t, err, ErrEmailTaken)
	require.Equal(t, 1, env.sessions.count())
}

func TestExpiredSessionLazyDelete(t *testing.T) {
	env := newTestEnv(t, func(cfg *ServiceConfig) { cfg.SessionTTL = time.Hour })
	ctx := context.Background()
	env.users.seed(t, "user@loftmanager.com", "password123", models.RoleMember, true)

	fakeNow := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	env.svc.nowFunc = func() time.Time { return fakeNow }

	token, err := env.svc.Login(ctx, "user@loftmanager.com", "password123")
	require.NoError(t, err)
	require.Equal(t, 1, env.sessions.count())

	// Past the TTL the token resolves to nothing and the row is reclaimed.
	env.svc.nowFunc = func() time.Time { return fakeNow.Add(2 * time.Hour) }
	_, err = env.svc.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.Zero(t, env.sessions.count())

	// Resolving the same dead token again behaves identically.
	_, err = env.svc.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	id := env.users.seed(t, "user@loftmanager.com", "oldpass1", models.RoleMember, true)

	// Unknown emails report success, nothing is stored.
	require.NoError(t, env.svc.RequestPasswordReset(ctx, "nobody@loftmanager.com"))

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "user@loftmanager.com"))
	env.users.mu.Lock()
	require.NotNil(t, env.users.users[id].ResetToken)
	resetToken := *env.users.users[id].ResetToken
	env.users.mu.Unlock()

	require.ErrorIs(t, env.svc.ResetPassword(ctx, "bogus-token", "newpass1"), ErrResetTokenInvalid)

	require.NoError(t, env.svc.ResetPassword(ctx, resetToken, "newpass1"))
	env.users.mu.Lock()
	require.Nil(t, env.users.users[id].ResetToken)
	require.Nil(t, env.users.users[id].ResetTokenExpires)
	env.users.mu.Unlock()

	_, err := env.svc.Login(ctx, "user@loftmanager.com", "oldpass1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.svc.Login(ctx, "user@loftmanager.com", "newpass1")
	require.NoError(t, err)
}

func TestRegisterLoginLogoutScenario(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	token, err := env.svc.Register(ctx, "alice@example.com", "secret1", "Alice", models.RoleMember)
	require.NoError(t, err)

	sess, err := env.svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, sess.User.Role)

	_, err = env.svc.Register(ctx, "alice@example.com", "secret1", "Alice Again", models.RoleMember)
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = env.svc.Login(ctx, "alice@example.com", "wrongpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, env.sessions.DeleteByToken(ctx, token))
	_, err = env.svc.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPasswordResetTokenExpiry(t *testing.T) {
	env := newTestEnv(t, func(cfg *ServiceConfig) { cfg.ResetTTL = time.Hour })
	ctx := context.Background()
	id := env.users.seed(t, "user@loftmanager.com", "oldpass1", models.RoleMember, true)

	fakeNow := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	env.svc.nowFunc = func() time.Time { return fakeNow }

	require.NoError(t, env.svc.RequestPasswordReset(ctx, "user@loftmanager.com"))
	env.users.mu.Lock()
	resetToken := *env.users.users[id].ResetToken
	env.users.mu.Unlock()

	env.svc.nowFunc = func() time.Time { return fakeNow.Add(61 * time.Minute) }
	require.ErrorIs(t, env.svc.ResetPassword(ctx, resetToken, "newpass1"), ErrResetTokenInvalid)
}
