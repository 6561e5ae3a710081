package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"loftmanager/internal/models"
)

func loggedIn(t *testing.T, env *testEnv, email, password string) string {
	t.Helper()
	token, err := env.svc.Login(context.Background(), email, password)
	require.NoError(t, err)
	return token
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: CookieName, Value: token}
}

func TestRequireAuthAnonymousRedirects(t *testing.T) {
	env := newTestEnv(t, nil)

	h := env.svc.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for anonymous callers")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestRequireAuthInjectsSession(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.seed(t, "user@loftmanager.com", "password123", models.RoleMember, true)
	token := loggedIn(t, env, "user@loftmanager.com", "password123")

	var got *AuthSession
	h := env.svc.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(token))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	require.Equal(t, "user@loftmanager.com", got.User.Email)
}

func TestRequireRoleRedirectsWithoutLeakingBody(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.seed(t, "member@loftmanager.com", "password123", models.RoleMember, true)
	token := loggedIn(t, env, "member@loftmanager.com", "password123")

	r := mux.NewRouter()
	admin := r.NewRoute().Subrouter()
	admin.Use(env.svc.RequireRole(models.RoleAdmin))
	admin.HandleFunc("/settings", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("admin secrets"))
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.AddCookie(sessionCookie(token))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/unauthorized", rr.Header().Get("Location"))
	require.NotContains(t, rr.Body.String(), "admin secrets")
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.seed(t, "manager@loftmanager.com", "password123", models.RoleManager, true)
	token := loggedIn(t, env, "manager@loftmanager.com", "password123")

	r := mux.NewRouter()
	staff := r.NewRoute().Subrouter()
	staff.Use(env.svc.RequireRole(models.RoleAdmin, models.RoleManager))
	staff.HandleFunc("/lofts", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, "/lofts", nil)
	req.AddCookie(sessionCookie(token))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestLogoutDeletesSessionAndClearsCookie(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.seed(t, "user@loftmanager.com", "password123", models.RoleMember, true)
	token := loggedIn(t, env, "user@loftmanager.com", "password123")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(sessionCookie(token))
	rr := httptest.NewRecorder()
	env.svc.Logout(rr, req)

	require.Zero(t, env.sessions.count())

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, CookieName, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)

	// The dead token never resolves again.
	_, err := env.svc.Resolve(context.Background(), token)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
