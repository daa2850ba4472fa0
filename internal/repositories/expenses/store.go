package expenses

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"expense_manager/internal/models"
	"expense_manager/internal/repositories/sqlconnect"
	"expense_manager/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	insertExpenseQuery = "INSERT INTO expenses (expense_date, amount, category, notes) VALUES (?, ?, ?, ?)"
	selectByDateQuery  = "SELECT expense_date, amount, category, notes FROM expenses WHERE expense_date = ? ORDER BY id"
	deleteByDateQuery  = "DELETE FROM expenses WHERE expense_date = ?"
	summaryQuery       = "SELECT category, SUM(amount) AS total FROM expenses WHERE expense_date BETWEEN ? AND ? GROUP BY category ORDER BY category"
)

// querier is satisfied by both *sql.Conn and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type Store struct {
	provider sqlconnect.Provider
	logger   logrus.FieldLogger
}

func NewStore(provider sqlconnect.Provider, logger logrus.FieldLogger) *Store {
	return &Store{
		provider: provider,
		logger:   utils.Component(logger, "expenses_store"),
	}
}

// withSession acquires a session for one operation. When commit is set fn
// runs inside a transaction that is committed on success and rolled back
// otherwise.
func (s *Store) withSession(ctx context.Context, commit bool, fn func(q querier) error) (err error) {
	session, err := s.provider.Acquire(ctx)
	if err != nil {
		return utils.ErrorHandler(s.logger, err, "failed to acquire DB session")
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.logger.WithError(cerr).Warn("failed to release DB session")
		}
	}()

	if !commit {
		return fn(session)
	}

	tx, err := session.BeginTx(ctx, nil)
	if err != nil {
		return utils.ErrorHandler(s.logger, err, "failed to start transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return utils.ErrorHandler(s.logger, err, "failed to commit transaction")
	}
	return nil
}

func (s *Store) CreateExpense(ctx context.Context, date time.Time, amount decimal.Decimal, category, notes string) error {
	s.logger.WithFields(logrus.Fields{
		"date":     date.Format(models.DateLayout),
		"amount":   amount.String(),
		"category": category,
		"notes":    notes,
	}).Info("create_expense called")

	return s.withSession(ctx, true, func(q querier) error {
		return insertExpense(ctx, q, date, amount, category, notes)
	})
}

func (s *Store) RetrieveExpensesByDate(ctx context.Context, date time.Time) ([]models.Expense, error) {
	s.logger.WithField("date", date.Format(models.DateLayout)).Info("retrieve_expenses_by_date called")

	expenses := []models.Expense{}
	err := s.withSession(ctx, false, func(q querier) error {
		rows, err := q.QueryContext(ctx, selectByDateQuery, dateArg(date))
		if err != nil {
			return utils.ErrorHandler(s.logger, err, "failed to retrieve expenses")
		}
		defer rows.Close()

		for rows.Next() {
			var (
				e     models.Expense
				notes sql.NullString
			)
			if err := rows.Scan(&e.Date, &e.Amount, &e.Category, &notes); err != nil {
				return utils.ErrorHandler(s.logger, err, "failed to scan expense")
			}
			e.Notes = notes.String
			expenses = append(expenses, e)
		}

		if err := rows.Err(); err != nil {
			return utils.ErrorHandler(s.logger, err, "failed to read expenses")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) DeleteExpensesByDate(ctx context.Context, date time.Time) error {
	s.logger.WithField("date", date.Format(models.DateLayout)).Info("delete_expenses_by_date called")

	return s.withSession(ctx, true, func(q querier) error {
		return deleteByDate(ctx, q, date)
	})
}

func (s *Store) FetchExpenseSummary(ctx context.Context, start, end time.Time) ([]models.CategorySummary, error) {
	s.logger.WithFields(logrus.Fields{
		"start_date": start.Format(models.DateLayout),
		"end_date":   end.Format(models.DateLayout),
	}).Info("fetch_expense_summary called")

	summaries := []models.CategorySummary{}
	err := s.withSession(ctx, false, func(q querier) error {
		rows, err := q.QueryContext(ctx, summaryQuery, dateArg(start), dateArg(end))
		if err != nil {
			return utils.ErrorHandler(s.logger, err, "failed to fetch expense summary")
		}
		defer rows.Close()

		for rows.Next() {
			var cs models.CategorySummary
			if err := rows.Scan(&cs.Category, &cs.Total); err != nil {
				return utils.ErrorHandler(s.logger, err, "failed to scan expense summary")
			}
			summaries = append(summaries, cs)
		}

		if err := rows.Err(); err != nil {
			return utils.ErrorHandler(s.logger, err, "failed to read expense summary")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// ReplaceExpenses swaps the full set of records for date in one transaction.
func (s *Store) ReplaceExpenses(ctx context.Context, date time.Time, expenses []models.Expense) error {
	s.logger.WithFields(logrus.Fields{
		"date":  date.Format(models.DateLayout),
		"count": len(expenses),
	}).Info("replace_expenses called")

	return s.withSession(ctx, true, func(q querier) error {
		if err := deleteByDate(ctx, q, date); err != nil {
			return err
		}
		for _, e := range expenses {
			if err := insertExpense(ctx, q, date, e.Amount, e.Category, e.Notes); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertExpense(ctx context.Context, q querier, date time.Time, amount decimal.Decimal, category, notes string) error {
	if _, err := q.ExecContext(ctx, insertExpenseQuery, dateArg(date), amount, category, notes); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func deleteByDate(ctx context.Context, q querier, date time.Time) error {
	if _, err := q.ExecContext(ctx, deleteByDateQuery, dateArg(date)); err != nil {
		return fmt.Errorf("failed to delete expenses: %w", err)
	}
	return nil
}

// dateArg binds dates as DATE literals so the time of day never leaks into comparisons.
func dateArg(t time.Time) string {
	return t.Format(models.DateLayout)
}
