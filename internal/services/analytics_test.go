package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"expense_manager/internal/models"

	"github.com/shopspring/decimal"
)

func summary(category string, total int64) models.CategorySummary {
	return models.CategorySummary{Category: category, Total: decimal.NewFromInt(total)}
}

func TestComputeBreakdown(t *testing.T) {
	got := ComputeBreakdown([]models.CategorySummary{summary("A", 30), summary("B", 70)})

	if len(got) != 2 {
		t.Fatalf("got %d categories", len(got))
	}
	if got["A"].Percentage != 30.0 || !got["A"].Total.Equal(decimal.NewFromInt(30)) {
		t.Errorf("A = %+v", got["A"])
	}
	if got["B"].Percentage != 70.0 || !got["B"].Total.Equal(decimal.NewFromInt(70)) {
		t.Errorf("B = %+v", got["B"])
	}
}

func TestComputeBreakdownFractions(t *testing.T) {
	got := ComputeBreakdown([]models.CategorySummary{
		{Category: "Food", Total: decimal.RequireFromString("12.50")},
		{Category: "Rent", Total: decimal.RequireFromString("37.50")},
	})
	if got["Food"].Percentage != 25.0 || got["Rent"].Percentage != 75.0 {
		t.Errorf("got %+v", got)
	}
}

func TestComputeBreakdownEmpty(t *testing.T) {
	got := ComputeBreakdown(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil map, got %#v", got)
	}
}

func TestComputeBreakdownZeroTotal(t *testing.T) {
	got := ComputeBreakdown([]models.CategorySummary{summary("Refund", 0)})
	if got["Refund"].Percentage != 0 {
		t.Errorf("zero total must yield zero percentage, got %v", got["Refund"].Percentage)
	}
}

func TestSortedBreakdown(t *testing.T) {
	b := ComputeBreakdown([]models.CategorySummary{
		summary("Shopping", 25), summary("Food", 25), summary("Rent", 50),
	})
	got := SortedBreakdown(b)

	want := []string{"Rent", "Food", "Shopping"}
	if len(got) != len(want) {
		t.Fatalf("got %d shares", len(got))
	}
	for i, c := range want {
		if got[i].Category != c {
			t.Errorf("position %d = %s, want %s", i, got[i].Category, c)
		}
	}
}

type fakeFetcher struct {
	rows       []models.CategorySummary
	err        error
	start, end time.Time
}

func (f *fakeFetcher) FetchExpenseSummary(_ context.Context, start, end time.Time) ([]models.CategorySummary, error) {
	f.start, f.end = start, end
	return f.rows, f.err
}

func TestAnalyticsServiceBreakdown(t *testing.T) {
	start := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	f := &fakeFetcher{rows: []models.CategorySummary{summary("Rent", 1200), summary("Food", 2800)}}

	got, err := NewAnalyticsService(f).Breakdown(context.Background(), start, end)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if !f.start.Equal(start) || !f.end.Equal(end) {
		t.Errorf("range passed = %v..%v", f.start, f.end)
	}
	if got["Rent"].Percentage != 30.0 || got["Food"].Percentage != 70.0 {
		t.Errorf("got %+v", got)
	}
}

func TestAnalyticsServiceSameDayRange(t *testing.T) {
	d := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	f := &fakeFetcher{rows: []models.CategorySummary{}}

	got, err := NewAnalyticsService(f).Breakdown(context.Background(), d, d)
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("want empty breakdown, got %+v", got)
	}
}

func TestAnalyticsServiceErrors(t *testing.T) {
	start := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewAnalyticsService(&fakeFetcher{}).Breakdown(context.Background(), start, end)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("want ErrInvalidRange, got %v", err)
	}

	down := errors.New("db down")
	_, err = NewAnalyticsService(&fakeFetcher{err: down}).Breakdown(context.Background(), end, start)
	if !errors.Is(err, down) {
		t.Errorf("want store error, got %v", err)
	}
}
