package routers

import (
	"net/http"

	"expense_manager/internal/api/handlers/analytics"
	"expense_manager/internal/api/handlers/expenses"
)

type Handlers struct {
	Expenses  *expenses.Handler
	Analytics *analytics.Handler
	Health    http.HandlerFunc
}

func MainRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	eRouter := expensesRouter(h.Expenses)
	mux.Handle("/expenses/", eRouter)

	aRouter := analyticsRouter(h.Analytics)
	mux.Handle("/analytics/", aRouter)
	mux.Handle("/analytics", aRouter)

	mux.Handle("GET /healthz", h.Health)

	return mux
}

