package web

import (
	"net/http"

	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lofts, err := h.d.Lofts.List(ctx)
	if err != nil {
		logs.Logger.Errorf("dashboard lofts: %v", err)
	}
	byStatus := map[models.LoftStatus]int{}
	for _, l := range lofts {
		byStatus[l.Status]++
	}

	taskCounts, err := h.d.Tasks.CountByStatus(ctx)
	if err != nil {
		logs.Logger.Errorf("dashboard tasks: %v", err)
	}
	userCount, err := h.d.Users.Count(ctx)
	if err != nil {
		logs.Logger.Errorf("dashboard users: %v", err)
	}
	recent, err := h.d.Transactions.Recent(ctx, 10)
	if err != nil {
		logs.Logger.Errorf("dashboard transactions: %v", err)
	}

	h.render(w, r, "dashboard.tmpl", map[string]any{
		"Title":        "Dashboard",
		"LoftTotal":    len(lofts),
		"Available":    byStatus[models.LoftAvailable],
		"Occupied":     byStatus[models.LoftOccupied],
		"Maintenance":  byStatus[models.LoftMaintenance],
		"TasksTodo":    taskCounts[models.TaskTodo],
		"TasksActive":  taskCounts[models.TaskInProgress],
		"TasksDone":    taskCounts[models.TaskCompleted],
		"UserCount":    userCount,
		"Transactions": recent,
	})
}
