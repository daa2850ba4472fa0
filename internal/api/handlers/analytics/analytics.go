package analytics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"expense_manager/internal/api/handlers"
	"expense_manager/internal/models"
	"expense_manager/internal/services"
	"expense_manager/pkg/utils"

	"github.com/sirupsen/logrus"
)

type Service interface {
	Breakdown(ctx context.Context, start, end time.Time) (models.Breakdown, error)
}

type Handler struct {
	service Service
	logger  logrus.FieldLogger
}

func NewHandler(service Service, logger logrus.FieldLogger) *Handler {
	return &Handler{service: service, logger: utils.Component(logger, "analytics_api")}
}

// POST /analytics/
func (h *Handler) GetAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DateRange
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, err := handlers.ParseDate(req.StartDate)
	if err != nil {
		utils.WriteError(w, "start_date: "+err.Error(), http.StatusBadRequest)
		return
	}
	end, err := handlers.ParseDate(req.EndDate)
	if err != nil {
		utils.WriteError(w, "end_date: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	breakdown, err := h.service.Breakdown(ctx, start, end)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRange) {
			utils.WriteError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.WithError(err).WithFields(logrus.Fields{
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
		}).Error("failed to compute analytics")
		utils.WriteError(w, "failed to retrieve expense summary from the DB", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, breakdown)
}
