package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"expense_manager/internal/models"

	"github.com/shopspring/decimal"
)

var ErrInvalidRange = errors.New("start_date must not be after end_date")

var hundred = decimal.NewFromInt(100)

// SummaryFetcher is the part of the store analytics depends on.
type SummaryFetcher interface {
	FetchExpenseSummary(ctx context.Context, start, end time.Time) ([]models.CategorySummary, error)
}

// ComputeBreakdown turns per-category sums into totals with their share of
// the grand total. A zero grand total yields zero percentages.
func ComputeBreakdown(summaries []models.CategorySummary) models.Breakdown {
	total := decimal.Zero
	for _, s := range summaries {
		total = total.Add(s.Total)
	}

	breakdown := make(models.Breakdown, len(summaries))
	for _, s := range summaries {
		percentage := 0.0
		if !total.IsZero() {
			percentage = s.Total.Mul(hundred).Div(total).InexactFloat64()
		}
		breakdown[s.Category] = models.CategoryBreakdown{
			Total:      s.Total,
			Percentage: percentage,
		}
	}
	return breakdown
}

// SortedBreakdown orders categories by percentage, largest first, then by name.
func SortedBreakdown(b models.Breakdown) []models.CategoryShare {
	shares := make([]models.CategoryShare, 0, len(b))
	for category, v := range b {
		shares = append(shares, models.CategoryShare{
			Category:   category,
			Total:      v.Total,
			Percentage: v.Percentage,
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percentage != shares[j].Percentage {
			return shares[i].Percentage > shares[j].Percentage
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

type AnalyticsService struct {
	store SummaryFetcher
}

func NewAnalyticsService(store SummaryFetcher) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Breakdown reports category shares for the inclusive range [start, end].
func (a *AnalyticsService) Breakdown(ctx context.Context, start, end time.Time) (models.Breakdown, error) {
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	summaries, err := a.store.FetchExpenseSummary(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch expense summary: %w", err)
	}
	return ComputeBreakdown(summaries), nil
}
