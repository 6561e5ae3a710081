package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"loftmanager/internal/auth"
	"loftmanager/internal/logs"
	"loftmanager/internal/models"
	"loftmanager/internal/repo"
)

type teamView struct {
	models.Team
	Members []repo.MemberRow
}

func (h *Handler) TeamsList(w http.ResponseWriter, r *http.Request) {
	teams, err := h.d.Teams.List(r.Context())
	if err != nil {
		logs.Logger.Errorf("teams list: %v", err)
	}
	views := make([]teamView, 0, len(teams))
	for _, t := range teams {
		members, err := h.d.Teams.ListMembers(r.Context(), t.ID)
		if err != nil {
			logs.Logger.Errorf("team members %s: %v", t.ID, err)
		}
		views = append(views, teamView{Team: t, Members: members})
	}
	users, _ := h.d.Users.List(r.Context())
	h.render(w, r, "teams_list.tmpl", map[string]any{
		"Title": "Teams", "Rows": views, "Users": users,
	})
}

func (h *Handler) TeamCreate(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	name := formStr(r, "name")
	if name == "" {
		http.Redirect(w, r, "/teams", http.StatusSeeOther)
		return
	}
	t := models.Team{
		Name:        name,
		Description: formStr(r, "description"),
		CreatedBy:   &sess.User.ID,
	}
	if err := h.d.Teams.Create(r.Context(), &t); err != nil {
		logs.Logger.Errorf("team create: %v", err)
		http.Error(w, "failed to create team", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/teams", http.StatusSeeOther)
}

func (h *Handler) TeamDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Teams.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		logs.Logger.Errorf("team delete: %v", err)
	}
	http.Redirect(w, r, "/teams", http.StatusSeeOther)
}

func (h *Handler) TeamMemberAdd(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["id"]
	userID := formStr(r, "user_id")
	if userID != "" {
		if err := h.d.Teams.AddMember(r.Context(), teamID, userID); err != nil {
			logs.Logger.Errorf("team member add: %v", err)
		}
	}
	http.Redirect(w, r, "/teams", http.StatusSeeOther)
}

func (h *Handler) TeamMemberRemove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.d.Teams.RemoveMember(r.Context(), vars["id"], vars["uid"]); err != nil {
		logs.Logger.Errorf("team member remove: %v", err)
	}
	http.Redirect(w, r, "/teams", http.StatusSeeOther)
}
