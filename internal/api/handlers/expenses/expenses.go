package expenses

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"expense_manager/internal/api/handlers"
	"expense_manager/internal/models"
	"expense_manager/pkg/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrBlankCategory  = errors.New("category is required")
)

type Store interface {
	RetrieveExpensesByDate(ctx context.Context, date time.Time) ([]models.Expense, error)
	ReplaceExpenses(ctx context.Context, date time.Time, expenses []models.Expense) error
}

type Handler struct {
	store  Store
	logger logrus.FieldLogger
}

func NewHandler(store Store, logger logrus.FieldLogger) *Handler {
	return &Handler{store: store, logger: utils.Component(logger, "expenses_api")}
}

// GET /expenses/{date}
func (h *Handler) GetExpensesHandler(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.ParseDate(r.PathValue("date"))
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	expenses, err := h.store.RetrieveExpensesByDate(ctx, date)
	if err != nil {
		h.logger.WithError(err).WithField("date", date.Format(models.DateLayout)).Error("failed to retrieve expenses")
		utils.WriteError(w, "failed to retrieve expenses from the DB", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, expenses)
}

// POST /expenses/{date}: replaces every record of the day with the body.
func (h *Handler) AddOrUpdateExpensesHandler(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.ParseDate(r.PathValue("date"))
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var expenses []models.Expense
	if err := handlers.DecodeJSON(w, r, &expenses); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if expenses == nil {
		utils.WriteError(w, "request body must be a JSON array", http.StatusBadRequest)
		return
	}

	for i := range expenses {
		if err := validate(expenses[i]); err != nil {
			utils.WriteError(w, fmt.Sprintf("expense %d: %v", i, err), http.StatusBadRequest)
			return
		}
		expenses[i].Date = date
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlers.RequestTimeout)
	defer cancel()

	if err := h.store.ReplaceExpenses(ctx, date, expenses); err != nil {
		h.logger.WithError(err).WithField("date", date.Format(models.DateLayout)).Error("failed to update expenses")
		utils.WriteError(w, "failed to update expenses in the DB", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, expenses)
}

func validate(e models.Expense) error {
	if e.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrBlankCategory
	}
	return nil
}
