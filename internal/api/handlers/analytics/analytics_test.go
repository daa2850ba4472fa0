package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expense_manager/internal/models"
	"expense_manager/internal/services"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type fakeSummaries struct {
	rows []models.CategorySummary
	err  error
}

func (f fakeSummaries) FetchExpenseSummary(context.Context, time.Time, time.Time) ([]models.CategorySummary, error) {
	return f.rows, f.err
}

func post(t *testing.T, fetcher services.SummaryFetcher, body string) *httptest.ResponseRecorder {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewHandler(services.NewAnalyticsService(fetcher), logger)

	rr := httptest.NewRecorder()
	h.GetAnalyticsHandler(rr, httptest.NewRequest(http.MethodPost, "/analytics/", strings.NewReader(body)))
	return rr
}

func TestGetAnalytics(t *testing.T) {
	rows := []models.CategorySummary{
		{Category: "Rent", Total: decimal.NewFromInt(1200)},
		{Category: "Food", Total: decimal.NewFromInt(2800)},
	}
	rr := post(t, fakeSummaries{rows: rows}, `{"start_date": "2024-08-01", "end_date": "2024-08-05"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var got map[string]struct {
		Total      float64 `json:"total"`
		Percentage float64 `json:"percentage"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode %s: %v", rr.Body.String(), err)
	}
	if got["Rent"].Total != 1200 || got["Rent"].Percentage != 30 {
		t.Errorf("Rent = %+v", got["Rent"])
	}
	if got["Food"].Total != 2800 || got["Food"].Percentage != 70 {
		t.Errorf("Food = %+v", got["Food"])
	}
}

func TestGetAnalyticsEmptyRange(t *testing.T) {
	rr := post(t, fakeSummaries{rows: []models.CategorySummary{}}, `{"start_date": "2099-01-01", "end_date": "2099-12-31"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "{}" {
		t.Errorf("body = %q, want {}", rr.Body.String())
	}
}

func TestGetAnalyticsBadRequests(t *testing.T) {
	for _, body := range []string{
		``,
		`{"start_date": "2024-08-01"}`,
		`{"start_date": "2024/08/01", "end_date": "2024-08-05"}`,
		`{"start_date": "2024-08-05", "end_date": "2024-08-01"}`,
		`{"start_date": "2024-08-01", "end_date": "2024-08-05", "limit": 3}`,
	} {
		rr := post(t, fakeSummaries{}, body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", body, rr.Code)
		}
	}
}

func TestGetAnalyticsStoreFailure(t *testing.T) {
	rr := post(t, fakeSummaries{err: errors.New("connection refused")}, `{"start_date": "2024-08-01", "end_date": "2024-08-05"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
	want := fmt.Sprintf(`"message":%q`, "failed to retrieve expense summary from the DB")
	if !strings.Contains(rr.Body.String(), want) {
		t.Errorf("body = %s", rr.Body.String())
	}
}
