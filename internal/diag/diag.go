package diag

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"loftmanager/internal/audit"
	"loftmanager/internal/auth"
	"loftmanager/internal/db"
	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

// Handler exposes JSON endpoints for operational troubleshooting: connection
// probes, schema inspection, forced demo seeding and a step-by-step login
// diagnosis that never issues a session.
type Handler struct {
	db    *gorm.DB
	prov  *db.Provisioner
	audit *audit.Recorder
}

func New(g *gorm.DB, prov *db.Provisioner, rec *audit.Recorder) *Handler {
	return &Handler{db: g, prov: prov, audit: rec}
}

func RegisterRoutes(r *mux.Router, h *Handler) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/test-db", h.TestDB).Methods(http.MethodGet)
	api.HandleFunc("/db-status", h.DBStatus).Methods(http.MethodGet)
	api.HandleFunc("/init-demo-users", h.InitDemoUsers).Methods(http.MethodPost)
	api.HandleFunc("/diagnose-login", h.DiagnoseLogin).Methods(http.MethodPost)
}

// TestDB probes connectivity and reports the database server time.
func (h *Handler) TestDB(w http.ResponseWriter, r *http.Request) {
	var serverTime time.Time
	if err := h.db.WithContext(r.Context()).Raw(`SELECT NOW()`).Scan(&serverTime).Error; err != nil {
		models.WriteProblem(w, http.StatusServiceUnavailable,
			"database unreachable", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"server_time": serverTime,
	})
}

var expectedTables = []string{
	"users", "user_sessions", "loft_owners", "lofts", "teams",
	"team_members", "tasks", "transactions", "categories", "audit_events",
}

// DBStatus reports which of the application tables exist and how many users
// are registered. Useful to tell a blank database from a broken one.
func (h *Handler) DBStatus(w http.ResponseWriter, r *http.Request) {
	var present []string
	err := h.db.WithContext(r.Context()).
		Raw(`SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name IN ?`, expectedTables).
		Scan(&present).Error
	if err != nil {
		models.WriteProblem(w, http.StatusServiceUnavailable,
			"schema inspection failed", err.Error(), nil)
		return
	}

	existing := map[string]bool{}
	for _, t := range present {
		existing[t] = true
	}
	missing := []string{}
	for _, t := range expectedTables {
		if !existing[t] {
			missing = append(missing, t)
		}
	}

	var userCount int64
	if existing["users"] {
		if err := h.db.WithContext(r.Context()).Raw(`SELECT COUNT(*) FROM users`).Scan(&userCount).Error; err != nil {
			models.WriteProblem(w, http.StatusServiceUnavailable,
				"user count failed", err.Error(), nil)
			return
		}
	}

	models.WriteJSON(w, http.StatusOK, map[string]any{
		"tables_present": present,
		"tables_missing": missing,
		"user_count":     userCount,
	})
}

// InitDemoUsers provisions the schema and force-seeds the demo accounts,
// skipping emails that already exist.
func (h *Handler) InitDemoUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.prov.Ensure(r.Context()); err != nil {
		models.WriteProblem(w, http.StatusServiceUnavailable,
			"schema provisioning failed", err.Error(), nil)
		return
	}
	if err := h.prov.ForceSeed(r.Context()); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError,
			"demo seed failed", err.Error(), nil)
		return
	}
	h.audit.Record(r.Context(), "diagnostics", "demo_seed_forced", nil)
	models.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type diagnoseLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginStep struct {
	Step string `json:"step"`
	OK   bool   `json:"ok"`
	Note string `json:"note,omitempty"`
}

// DiagnoseLogin walks the login sequence step by step and reports where it
// stops. No session is issued and nothing is mutated.
func (h *Handler) DiagnoseLogin(w http.ResponseWriter, r *http.Request) {
	var req diagnoseLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		models.WriteProblem(w, http.StatusBadRequest,
			"invalid request", "body must be JSON with email and password", nil)
		return
	}

	steps := []loginStep{}
	fail := func(step, note string) {
		steps = append(steps, loginStep{Step: step, OK: false, Note: note})
		models.WriteJSON(w, http.StatusOK, map[string]any{"ok": false, "steps": steps})
	}
	pass := func(step string) {
		steps = append(steps, loginStep{Step: step, OK: true})
	}

	if err := h.db.WithContext(r.Context()).Exec(`SELECT 1`).Error; err != nil {
		fail("connect", err.Error())
		return
	}
	pass("connect")

	var u models.User
	err := h.db.WithContext(r.Context()).Where("email = ?", req.Email).First(&u).Error
	if err != nil {
		note := "no user with this email"
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			note = err.Error()
			logs.Logger.Errorf("diagnose-login lookup: %v", err)
		}
		fail("lookup", note)
		return
	}
	pass("lookup")

	if u.PasswordHash == nil || *u.PasswordHash == "" {
		fail("password_hash", "user row has no password hash")
		return
	}
	pass("password_hash")

	if !u.EmailVerified {
		fail("email_verified", "email is not verified")
		return
	}
	pass("email_verified")

	if !auth.VerifyPassword(req.Password, *u.PasswordHash) {
		fail("password_check", "password does not match")
		return
	}
	pass("password_check")

	models.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "steps": steps})
}
