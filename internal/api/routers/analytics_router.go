package routers

import (
	"net/http"

	"expense_manager/internal/api/handlers/analytics"
)

func analyticsRouter(h *analytics.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analytics/", h.GetAnalyticsHandler)
	mux.HandleFunc("POST /analytics", h.GetAnalyticsHandler)

	return mux
}
