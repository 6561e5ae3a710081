package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"loftmanager/internal/auth"
	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

// Role tiers used by the route table.
var (
	RolesStaff = []models.UserRole{models.RoleAdmin, models.RoleManager}
	RolesAdmin = []models.UserRole{models.RoleAdmin}
)

type Handler struct {
	d Dependencies
	t pageTemplates
}

func (h *Handler) redirect(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusFound)
	}
}

// render merges the caller session into the page data and executes the
// layout for the given page template.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data map[string]any) {
	t, ok := h.t[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Sess"]; !ok {
		data["Sess"] = auth.FromContext(r.Context())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		logs.Logger.Errorf("render %s: %v", page, err)
	}
}

// ---------- form helpers ----------

func formStr(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// formOpt returns nil for an empty field so optional UUID columns stay NULL.
func formOpt(r *http.Request, name string) *string {
	v := formStr(r, name)
	if v == "" {
		return nil
	}
	return &v
}

func formFloat(r *http.Request, name string) (float64, error) {
	return strconv.ParseFloat(formStr(r, name), 64)
}

func formDate(r *http.Request, name string) *time.Time {
	v := formStr(r, name)
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}
