package health

import (
	"context"
	"net/http"

	"expense_manager/internal/api/handlers"
	"expense_manager/pkg/utils"

	"github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func Handler(db Pinger, logger logrus.FieldLogger) http.HandlerFunc {
	logger = utils.Component(logger, "health")
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.WithError(err).Warn("health check failed")
			utils.WriteError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		utils.WriteJSON(w, map[string]string{"status": "ok"})
	}
}
