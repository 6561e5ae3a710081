package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"loftmanager/internal/auth"
	"loftmanager/internal/logs"
	"loftmanager/internal/models"
	"loftmanager/internal/repo"
)

func (h *Handler) TasksList(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())

	var f repo.TaskFilter
	// Members only see what is assigned to them.
	if sess.User.Role == models.RoleMember {
		f.AssignedTo = sess.User.ID
	}
	if s := formStr(r, "status"); s != "" {
		f.Status = s
	}

	rows, err := h.d.Tasks.List(r.Context(), f)
	if err != nil {
		logs.Logger.Errorf("tasks list: %v", err)
	}
	h.render(w, r, "tasks_list.tmpl", map[string]any{
		"Title": "Tasks", "Rows": rows, "Status": f.Status,
	})
}

func (h *Handler) taskFormData(r *http.Request, title string, t *models.Task, msg string) map[string]any {
	users, _ := h.d.Users.List(r.Context())
	teams, _ := h.d.Teams.List(r.Context())
	lofts, _ := h.d.Lofts.List(r.Context())
	data := map[string]any{
		"Title": title, "Task": t, "Users": users, "Teams": teams, "Lofts": lofts,
	}
	if msg != "" {
		data["Error"] = msg
	}
	return data
}

func (h *Handler) TaskNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "task_form.tmpl", h.taskFormData(r, "New task", &models.Task{Status: models.TaskTodo}, ""))
}

func (h *Handler) TaskEdit(w http.ResponseWriter, r *http.Request) {
	t, err := h.d.Tasks.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "task_form.tmpl", h.taskFormData(r, "Edit task", t, ""))
}

func validTaskStatus(s string) bool {
	switch models.TaskStatus(s) {
	case models.TaskTodo, models.TaskInProgress, models.TaskCompleted:
		return true
	}
	return false
}

func taskFromForm(r *http.Request, t *models.Task) string {
	t.Title = formStr(r, "title")
	if t.Title == "" {
		t.Title = "Untitled Task"
	}
	t.Description = formStr(r, "description")
	status := formStr(r, "status")
	if status == "" {
		status = string(models.TaskTodo)
	}
	if !validTaskStatus(status) {
		return "Invalid status"
	}
	t.Status = models.TaskStatus(status)
	t.DueDate = formDate(r, "due_date")
	t.AssignedTo = formOpt(r, "assigned_to")
	t.TeamID = formOpt(r, "team_id")
	t.LoftID = formOpt(r, "loft_id")
	return ""
}

func (h *Handler) TaskCreate(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	var t models.Task
	if msg := taskFromForm(r, &t); msg != "" {
		h.render(w, r, "task_form.tmpl", h.taskFormData(r, "New task", &t, msg))
		return
	}
	t.CreatedBy = &sess.User.ID
	if err := h.d.Tasks.Create(r.Context(), &t); err != nil {
		logs.Logger.Errorf("task create: %v", err)
		http.Error(w, "failed to create task", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func (h *Handler) TaskUpdate(w http.ResponseWriter, r *http.Request) {
	t, err := h.d.Tasks.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if msg := taskFromForm(r, t); msg != "" {
		h.render(w, r, "task_form.tmpl", h.taskFormData(r, "Edit task", t, msg))
		return
	}
	if err := h.d.Tasks.Update(r.Context(), t); err != nil {
		logs.Logger.Errorf("task update: %v", err)
		http.Error(w, "failed to update task", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// TaskStatusSubmit lets an assignee move their own task through the board;
// staff can move any task.
func (h *Handler) TaskStatusSubmit(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	id := mux.Vars(r)["id"]

	t, err := h.d.Tasks.Get(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if sess.User.Role == models.RoleMember &&
		(t.AssignedTo == nil || *t.AssignedTo != sess.User.ID) {
		http.Redirect(w, r, "/unauthorized", http.StatusFound)
		return
	}

	status := formStr(r, "status")
	if !validTaskStatus(status) {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	if err := h.d.Tasks.UpdateStatus(r.Context(), id, models.TaskStatus(status)); err != nil {
		logs.Logger.Errorf("task status update: %v", err)
		http.Error(w, "failed to update task", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

func (h *Handler) TaskDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Tasks.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		logs.Logger.Errorf("task delete: %v", err)
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}
