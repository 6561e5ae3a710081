package web

import (
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"loftmanager/config"
	"loftmanager/internal/audit"
	"loftmanager/internal/auth"
	"loftmanager/internal/repo"
)

type Dependencies struct {
	DB           *gorm.DB
	Auth         *auth.Service
	Owners       *repo.OwnerStore
	Lofts        *repo.LoftStore
	Tasks        *repo.TaskStore
	Teams        *repo.TeamStore
	Transactions *repo.TransactionStore
	Categories   *repo.CategoryStore
	Users        *repo.UserDirectory
	Audit        *audit.Recorder
	CFG          *config.Config
}

func Attach(r *mux.Router, d Dependencies) {
	h := &Handler{d: d, t: parseTemplates()}

	// public
	r.HandleFunc("/", h.redirect("/dashboard")).Methods("GET")
	r.HandleFunc("/login", h.LoginPage).Methods("GET")
	r.HandleFunc("/login", h.LoginSubmit).Methods("POST")
	r.HandleFunc("/register", h.RegisterPage).Methods("GET")
	r.HandleFunc("/register", h.RegisterSubmit).Methods("POST")
	r.HandleFunc("/forgot-password", h.ForgotPasswordPage).Methods("GET")
	r.HandleFunc("/forgot-password", h.ForgotPasswordSubmit).Methods("POST")
	r.HandleFunc("/reset-password", h.ResetPasswordPage).Methods("GET")
	r.HandleFunc("/reset-password", h.ResetPasswordSubmit).Methods("POST")
	r.HandleFunc("/unauthorized", h.Unauthorized).Methods("GET")
	r.HandleFunc("/logout", h.Logout).Methods("POST")

	// any authenticated user
	member := r.NewRoute().Subrouter()
	member.Use(d.Auth.RequireAuth)
	member.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	member.HandleFunc("/tasks", h.TasksList).Methods("GET")
	member.HandleFunc("/tasks/{id}/status", h.TaskStatusSubmit).Methods("POST")

	// admin + manager
	staff := r.NewRoute().Subrouter()
	staff.Use(d.Auth.RequireRole(RolesStaff...))
	staff.HandleFunc("/tasks/new", h.TaskNew).Methods("GET")
	staff.HandleFunc("/tasks", h.TaskCreate).Methods("POST")
	staff.HandleFunc("/tasks/{id}/edit", h.TaskEdit).Methods("GET")
	staff.HandleFunc("/tasks/{id}", h.TaskUpdate).Methods("POST")
	staff.HandleFunc("/tasks/{id}/delete", h.TaskDelete).Methods("POST")
	staff.HandleFunc("/lofts", h.LoftsList).Methods("GET")
	staff.HandleFunc("/lofts/new", h.LoftNew).Methods("GET")
	staff.HandleFunc("/lofts", h.LoftCreate).Methods("POST")
	staff.HandleFunc("/lofts/{id}/edit", h.LoftEdit).Methods("GET")
	staff.HandleFunc("/lofts/{id}", h.LoftUpdate).Methods("POST")
	staff.HandleFunc("/lofts/{id}/delete", h.LoftDelete).Methods("POST")
	staff.HandleFunc("/transactions", h.TransactionsList).Methods("GET")
	staff.HandleFunc("/reports", h.Reports).Methods("GET")

	// admin only
	admin := r.NewRoute().Subrouter()
	admin.Use(d.Auth.RequireRole(RolesAdmin...))
	admin.HandleFunc("/owners", h.OwnersList).Methods("GET")
	admin.HandleFunc("/owners/new", h.OwnerNew).Methods("GET")
	admin.HandleFunc("/owners", h.OwnerCreate).Methods("POST")
	admin.HandleFunc("/owners/{id}/edit", h.OwnerEdit).Methods("GET")
	admin.HandleFunc("/owners/{id}", h.OwnerUpdate).Methods("POST")
	admin.HandleFunc("/owners/{id}/delete", h.OwnerDelete).Methods("POST")
	admin.HandleFunc("/transactions/new", h.TransactionNew).Methods("GET")
	admin.HandleFunc("/transactions", h.TransactionCreate).Methods("POST")
	admin.HandleFunc("/transactions/{id}/edit", h.TransactionEdit).Methods("GET")
	admin.HandleFunc("/transactions/{id}", h.TransactionUpdate).Methods("POST")
	admin.HandleFunc("/transactions/{id}/delete", h.TransactionDelete).Methods("POST")
	admin.HandleFunc("/teams", h.TeamsList).Methods("GET")
	admin.HandleFunc("/teams", h.TeamCreate).Methods("POST")
	admin.HandleFunc("/teams/{id}/delete", h.TeamDelete).Methods("POST")
	admin.HandleFunc("/teams/{id}/members", h.TeamMemberAdd).Methods("POST")
	admin.HandleFunc("/teams/{id}/members/{uid}/delete", h.TeamMemberRemove).Methods("POST")
	admin.HandleFunc("/settings", h.Settings).Methods("GET")
	admin.HandleFunc("/settings/categories", h.CategoriesList).Methods("GET")
	admin.HandleFunc("/settings/categories", h.CategoryCreate).Methods("POST")
	admin.HandleFunc("/settings/categories/{id}/delete", h.CategoryDelete).Methods("POST")

	// static
	r.HandleFunc("/static/style.css", serveCSS).Methods("GET")
}
