package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

func (h *Handler) OwnersList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.d.Owners.List(r.Context())
	if err != nil {
		logs.Logger.Errorf("owners list: %v", err)
	}
	h.render(w, r, "owners_list.tmpl", map[string]any{"Title": "Owners", "Rows": rows})
}

func (h *Handler) OwnerNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "owner_form.tmpl", map[string]any{"Title": "New owner", "Owner": &models.LoftOwner{}})
}

func (h *Handler) OwnerEdit(w http.ResponseWriter, r *http.Request) {
	o, err := h.d.Owners.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "owner_form.tmpl", map[string]any{"Title": "Edit owner", "Owner": o})
}

func ownerFromForm(r *http.Request, o *models.LoftOwner) string {
	o.Name = formStr(r, "name")
	o.Email = formStr(r, "email")
	o.Phone = formStr(r, "phone")
	o.Address = formStr(r, "address")
	if o.Name == "" {
		return "Name is required"
	}
	switch t := models.OwnershipType(formStr(r, "ownership_type")); t {
	case models.OwnershipCompany, models.OwnershipThirdParty:
		o.OwnershipType = t
	default:
		return "Invalid ownership type"
	}
	return ""
}

func (h *Handler) OwnerCreate(w http.ResponseWriter, r *http.Request) {
	var o models.LoftOwner
	if msg := ownerFromForm(r, &o); msg != "" {
		h.render(w, r, "owner_form.tmpl", map[string]any{"Title": "New owner", "Owner": &o, "Error": msg})
		return
	}
	if err := h.d.Owners.Create(r.Context(), &o); err != nil {
		logs.Logger.Errorf("owner create: %v", err)
		http.Error(w, "failed to create owner", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/owners", http.StatusSeeOther)
}

func (h *Handler) OwnerUpdate(w http.ResponseWriter, r *http.Request) {
	o, err := h.d.Owners.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if msg := ownerFromForm(r, o); msg != "" {
		h.render(w, r, "owner_form.tmpl", map[string]any{"Title": "Edit owner", "Owner": o, "Error": msg})
		return
	}
	if err := h.d.Owners.Update(r.Context(), o); err != nil {
		logs.Logger.Errorf("owner update: %v", err)
		http.Error(w, "failed to update owner", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/owners", http.StatusSeeOther)
}

func (h *Handler) OwnerDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Owners.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		logs.Logger.Errorf("owner delete: %v", err)
	}
	http.Redirect(w, r, "/owners", http.StatusSeeOther)
}
