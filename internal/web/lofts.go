package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

func (h *Handler) LoftsList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.d.Lofts.List(r.Context())
	if err != nil {
		logs.Logger.Errorf("lofts list: %v", err)
	}
	h.render(w, r, "lofts_list.tmpl", map[string]any{"Title": "Lofts", "Rows": rows})
}

func (h *Handler) LoftNew(w http.ResponseWriter, r *http.Request) {
	owners, _ := h.d.Owners.List(r.Context())
	h.render(w, r, "loft_form.tmpl", map[string]any{
		"Title": "New loft", "Owners": owners, "Loft": &models.Loft{OwnerPercentage: 100},
	})
}

func (h *Handler) LoftEdit(w http.ResponseWriter, r *http.Request) {
	l, err := h.d.Lofts.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	owners, _ := h.d.Owners.List(r.Context())
	h.render(w, r, "loft_form.tmpl", map[string]any{"Title": "Edit loft", "Owners": owners, "Loft": l})
}

// loftFromForm validates and builds the loft fields shared by create/update.
func (h *Handler) loftFromForm(r *http.Request, l *models.Loft) string {
	l.Name = formStr(r, "name")
	l.Description = formStr(r, "description")
	l.Address = formStr(r, "address")
	if l.Name == "" || l.Address == "" {
		return "Name and address are required"
	}

	price, err := formFloat(r, "price_per_month")
	if err != nil || price < 0 {
		return "Price must be a positive number"
	}
	l.PricePerMonth = price

	status := models.LoftStatus(formStr(r, "status"))
	switch status {
	case models.LoftAvailable, models.LoftOccupied, models.LoftMaintenance:
		l.Status = status
	default:
		return "Invalid status"
	}

	l.OwnerID = formOpt(r, "owner_id")

	cp, err1 := formFloat(r, "company_percentage")
	op, err2 := formFloat(r, "owner_percentage")
	if err1 != nil || err2 != nil || cp < 0 || cp > 100 || op < 0 || op > 100 {
		return "Percentages must be between 0 and 100"
	}
	if cp+op != 100 {
		return "Company and owner percentages must sum to 100%"
	}
	l.CompanyPercentage, l.OwnerPercentage = cp, op
	return ""
}

func (h *Handler) LoftCreate(w http.ResponseWriter, r *http.Request) {
	var l models.Loft
	if msg := h.loftFromForm(r, &l); msg != "" {
		owners, _ := h.d.Owners.List(r.Context())
		h.render(w, r, "loft_form.tmpl", map[string]any{
			"Title": "New loft", "Owners": owners, "Loft": &l, "Error": msg,
		})
		return
	}
	if err := h.d.Lofts.Create(r.Context(), &l); err != nil {
		logs.Logger.Errorf("loft create: %v", err)
		http.Error(w, "failed to create loft", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/lofts", http.StatusSeeOther)
}

func (h *Handler) LoftUpdate(w http.ResponseWriter, r *http.Request) {
	l, err := h.d.Lofts.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	l.Owner = nil
	if msg := h.loftFromForm(r, l); msg != "" {
		owners, _ := h.d.Owners.List(r.Context())
		h.render(w, r, "loft_form.tmpl", map[string]any{
			"Title": "Edit loft", "Owners": owners, "Loft": l, "Error": msg,
		})
		return
	}
	if err := h.d.Lofts.Update(r.Context(), l); err != nil {
		logs.Logger.Errorf("loft update: %v", err)
		http.Error(w, "failed to update loft", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/lofts", http.StatusSeeOther)
}

func (h *Handler) LoftDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Lofts.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		logs.Logger.Errorf("loft delete: %v", err)
	}
	http.Redirect(w, r, "/lofts", http.StatusSeeOther)
}
