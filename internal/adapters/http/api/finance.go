package api

import (
	"context"
	"net/http"

	"github.com/okian/prochallenge/internal/domain/types"
)

// FinanceDependencies defines the interface for finance operations.
type FinanceDependencies interface {
	Budget(ctx context.Context) (types.Budget, error)
	SetBudget(ctx context.Context, amount float64) (types.Budget, error)
	Expenses(ctx context.Context) (types.Expenses, error)
	AddExpense(ctx context.Context, e types.Expense) (types.Expenses, error)
	ExpenseSummary(ctx context.Context) (types.ExpenseSummary, error)
	FinanceLeaderboard(ctx context.Context) ([]types.FinanceStanding, error)
}

// FinanceHandler handles budget and expense requests.
type FinanceHandler struct {
	deps FinanceDependencies
}

// NewFinanceHandler creates a new finance handler.
func NewFinanceHandler(deps FinanceDependencies) *FinanceHandler {
	return &FinanceHandler{deps: deps}
}

// HandleGetBudget handles GET /finance/budget requests.
func (h *FinanceHandler) HandleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := h.deps.Budget(r.Context())
	if err != nil {
		writeError(w, Wrap("api.get_budget", err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleSetBudget handles PUT /finance/budget requests.
func (h *FinanceHandler) HandleSetBudget(w http.ResponseWriter, r *http.Request) {
	const op = "api.set_budget"
	var req budgetRequest
	if err := decode(r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.deps.SetBudget(r.Context(), req.TargetAmount)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleGetExpenses handles GET /finance/expenses requests.
func (h *FinanceHandler) HandleGetExpenses(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.Expenses(r.Context())
	if err != nil {
		writeError(w, Wrap("api.get_expenses", err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleAddExpense handles POST /finance/expenses requests.
func (h *FinanceHandler) HandleAddExpense(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_expense"
	var req types.Expense
	if err := decode(r, op, &req); err != nil {
		writeError(w, err)
		return
	}
	list, err := h.deps.AddExpense(r.Context(), req)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// HandleSummary handles GET /finance/summary requests.
func (h *FinanceHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.deps.ExpenseSummary(r.Context())
	if err != nil {
		writeError(w, Wrap("api.expense_summary", err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// HandleLeaderboard handles GET /finance/leaderboard requests.
func (h *FinanceHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	list, err := h.deps.FinanceLeaderboard(r.Context())
	if err != nil {
		writeError(w, Wrap("api.finance_leaderboard", err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}
