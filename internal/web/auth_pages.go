package web

import (
	"errors"
	"net/http"

	"loftmanager/internal/auth"
	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.d.Auth.GetSession(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	h.render(w, r, "login.tmpl", map[string]any{"Title": "Sign in", "Email": ""})
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := formStr(r, "email")
	password := r.FormValue("password")

	token, err := h.d.Auth.Login(r.Context(), email, password)
	if err != nil {
		msg := "An error occurred during login"
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			msg = "Invalid email or password"
		case errors.Is(err, auth.ErrUnverifiedEmail):
			msg = "Please verify your email address"
		default:
			logs.Logger.Errorf("login %s: %v", email, err)
		}
		h.render(w, r, "login.tmpl", map[string]any{"Title": "Sign in", "Error": msg, "Email": email})
		return
	}

	h.d.Auth.SetSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.tmpl", map[string]any{"Title": "Create account", "Email": "", "FullName": ""})
}

func (h *Handler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	email := formStr(r, "email")
	password := r.FormValue("password")
	fullName := formStr(r, "full_name")
	role := formStr(r, "role")
	if role == "" {
		role = string(models.RoleMember)
	}

	fail := func(msg string) {
		h.render(w, r, "register.tmpl", map[string]any{
			"Title": "Create account", "Error": msg,
			"Email": email, "FullName": fullName,
		})
	}

	if email == "" || !models.ValidRole(role) {
		fail("Email and a valid role are required")
		return
	}
	if len(password) < 6 {
		fail("Password must be at least 6 characters")
		return
	}
	if len(fullName) < 2 {
		fail("Full name must be at least 2 characters")
		return
	}

	token, err := h.d.Auth.Register(r.Context(), email, password, fullName, models.UserRole(role))
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			fail("User with this email already exists")
			return
		}
		logs.Logger.Errorf("register %s: %v", email, err)
		fail("Failed to create user account")
		return
	}

	h.d.Auth.SetSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.d.Auth.Logout(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "forgot_password.tmpl", map[string]any{"Title": "Forgot password"})
}

func (h *Handler) ForgotPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	email := formStr(r, "email")
	if err := h.d.Auth.RequestPasswordReset(r.Context(), email); err != nil {
		logs.Logger.Errorf("password reset request: %v", err)
		h.render(w, r, "forgot_password.tmpl", map[string]any{
			"Title": "Forgot password", "Error": "An error occurred",
		})
		return
	}
	// Same answer whether or not the account exists.
	h.render(w, r, "forgot_password.tmpl", map[string]any{
		"Title": "Forgot password", "Notice": "If the account exists, a reset link has been issued",
	})
}

func (h *Handler) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "reset_password.tmpl", map[string]any{
		"Title": "Reset password", "Token": r.URL.Query().Get("token"),
	})
}

func (h *Handler) ResetPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	token := formStr(r, "token")
	password := r.FormValue("password")

	if len(password) < 6 {
		h.render(w, r, "reset_password.tmpl", map[string]any{
			"Title": "Reset password", "Token": token,
			"Error": "Password must be at least 6 characters",
		})
		return
	}
	if err := h.d.Auth.ResetPassword(r.Context(), token, password); err != nil {
		msg := "An error occurred"
		if errors.Is(err, auth.ErrResetTokenInvalid) {
			msg = "Invalid or expired reset token"
		} else {
			logs.Logger.Errorf("password reset: %v", err)
		}
		h.render(w, r, "reset_password.tmpl", map[string]any{
			"Title": "Reset password", "Token": token, "Error": msg,
		})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "unauthorized.tmpl", map[string]any{"Title": "Unauthorized"})
}
