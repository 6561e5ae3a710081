package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	users, err := h.d.Users.List(r.Context())
	if err != nil {
		logs.Logger.Errorf("settings users: %v", err)
	}
	events, err := h.d.Audit.Recent(r.Context(), 50)
	if err != nil {
		logs.Logger.Errorf("settings audit: %v", err)
	}
	h.render(w, r, "settings.tmpl", map[string]any{
		"Title": "Settings", "Users": users, "Events": events,
	})
}

func (h *Handler) CategoriesList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.d.Categories.List(r.Context())
	if err != nil {
		logs.Logger.Errorf("categories list: %v", err)
	}
	h.render(w, r, "categories_list.tmpl", map[string]any{"Title": "Categories", "Rows": rows})
}

func (h *Handler) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := formStr(r, "name")
	typ := formStr(r, "type")
	if name == "" || (typ != "income" && typ != "expense") {
		rows, _ := h.d.Categories.List(r.Context())
		h.render(w, r, "categories_list.tmpl", map[string]any{
			"Title": "Categories", "Rows": rows,
			"Error": "Name and a type of income or expense are required",
		})
		return
	}
	c := models.Category{Name: name, Description: formStr(r, "description"), Type: typ}
	if err := h.d.Categories.Create(r.Context(), &c); err != nil {
		logs.Logger.Errorf("category create: %v", err)
		http.Error(w, "failed to create category", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/settings/categories", http.StatusSeeOther)
}

func (h *Handler) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Categories.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		logs.Logger.Errorf("category delete: %v", err)
	}
	http.Redirect(w, r, "/settings/categories", http.StatusSeeOther)
}
