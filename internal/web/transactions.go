package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"loftmanager/internal/logs"
	"loftmanager/internal/models"
)

func (h *Handler) TransactionsList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.d.Transactions.List(r.Context())
	if err != nil {
		logs.Logger.Errorf("transactions list: %v", err)
	}
	h.render(w, r, "transactions_list.tmpl", map[string]any{"Title": "Transactions", "Rows": rows})
}

func (h *Handler) transactionFormData(r *http.Request, title string, t *models.Transaction, msg string) map[string]any {
	lofts, _ := h.d.Lofts.List(r.Context())
	users, _ := h.d.Users.List(r.Context())
	cats, _ := h.d.Categories.List(r.Context())
	data := map[string]any{
		"Title": title, "Tx": t, "Lofts": lofts, "Users": users, "Categories": cats,
	}
	if msg != "" {
		data["Error"] = msg
	}
	return data
}

func (h *Handler) TransactionNew(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "transaction_form.tmpl",
		h.transactionFormData(r, "New transaction", &models.Transaction{Status: models.TransactionPending}, ""))
}

func (h *Handler) TransactionEdit(w http.ResponseWriter, r *http.Request) {
	t, err := h.d.Transactions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "transaction_form.tmpl", h.transactionFormData(r, "Edit transaction", t, ""))
}

func transactionFromForm(r *http.Request, t *models.Transaction) string {
	amount, err := formFloat(r, "amount")
	if err != nil {
		return "Amount is required"
	}
	t.Amount = amount
	t.Description = formStr(r, "description")

	typ := formStr(r, "transaction_type")
	if typ != "income" && typ != "expense" {
		return "Type must be income or expense"
	}
	t.TransactionType = typ

	status := formStr(r, "status")
	if status == "" {
		status = string(models.TransactionPending)
	}
	switch s := models.TransactionStatus(status); s {
	case models.TransactionPending, models.TransactionCompleted, models.TransactionFailed:
		t.Status = s
	default:
		return "Invalid status"
	}

	t.Category = formStr(r, "category")
	t.LoftID = formOpt(r, "loft_id")
	t.UserID = formOpt(r, "user_id")
	return ""
}

func (h *Handler) TransactionCreate(w http.ResponseWriter, r *http.Request) {
	var t models.Transaction
	if msg := transactionFromForm(r, &t); msg != "" {
		h.render(w, r, "transaction_form.tmpl", h.transactionFormData(r, "New transaction", &t, msg))
		return
	}
	if err := h.d.Transactions.Create(r.Context(), &t); err != nil {
		logs.Logger.Errorf("transaction create: %v", err)
		http.Error(w, "failed to create transaction", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

func (h *Handler) TransactionUpdate(w http.ResponseWriter, r *http.Request) {
	t, err := h.d.Transactions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if msg := transactionFromForm(r, t); msg != "" {
		h.render(w, r, "transaction_form.tmpl", h.transactionFormData(r, "Edit transaction", t, msg))
		return
	}
	if err := h.d.Transactions.Update(r.Context(), t); err != nil {
		logs.Logger.Errorf("transaction update: %v", err)
		http.Error(w, "failed to update transaction", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

func (h *Handler) TransactionDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.d.Transactions.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		logs.Logger.Errorf("transaction delete: %v", err)
	}
	http.Redirect(w, r, "/transactions", http.StatusSeeOther)
}

func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	monthly, err := h.d.Transactions.TotalsByMonth(r.Context())
	if err != nil {
		logs.Logger.Errorf("reports by month: %v", err)
	}
	byLoft, err := h.d.Transactions.TotalsByLoft(r.Context())
	if err != nil {
		logs.Logger.Errorf("reports by loft: %v", err)
	}
	h.render(w, r, "reports.tmpl", map[string]any{
		"Title": "Reports", "Monthly": monthly, "ByLoft": byLoft,
	})
}
