package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// the UI reads amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the wire and storage format of expense dates.
const DateLayout = "2006-01-02"

type Expense struct {
	Date     time.Time       `json:"-" db:"expense_date"`
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	Category string          `json:"category" db:"category"`
	Notes    string          `json:"notes" db:"notes"`
}

type CategorySummary struct {
	Category string          `json:"category" db:"category"`
	Total    decimal.Decimal `json:"total" db:"total"`
}

type CategoryBreakdown struct {
	Total      decimal.Decimal `json:"total"`
	Percentage float64         `json:"percentage"`
}

// Breakdown maps a category name to its share of the range total.
type Breakdown map[string]CategoryBreakdown

// CategoryShare is one row of a Breakdown in display order.
type CategoryShare struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Percentage float64         `json:"percentage"`
}

type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
