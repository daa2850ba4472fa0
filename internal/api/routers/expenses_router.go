package routers

import (
	"net/http"

	"expense_manager/internal/api/handlers/expenses"
)

func expensesRouter(h *expenses.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /expenses/{date}", h.GetExpensesHandler)
	mux.HandleFunc("POST /expenses/{date}", h.AddOrUpdateExpensesHandler)

	return mux
}
