package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"loftmanager/internal/models"
)

type ctxKey struct{}

// FromContext returns the session injected by RequireAuth/RequireRole,
// or nil outside a gated handler.
func FromContext(ctx context.Context) *AuthSession {
	if s, ok := ctx.Value(ctxKey{}).(*AuthSession); ok {
		return s
	}
	return nil
}

// RequireAuth resolves the caller; anonymous callers are sent to the login
// page. The outcome of a failed gate is navigation, never an error page.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.GetSession(r)
		if sess == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

// RequireRole gates a subrouter to the allowed roles. A resolved user outside
// the set is sent to /unauthorized with nothing of the page written first.
func (s *Service) RequireRole(roles ...models.UserRole) mux.MiddlewareFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return s.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := FromContext(r.Context())
			if _, ok := allowed[sess.User.Role]; !ok {
				http.Redirect(w, r, "/unauthorized", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
