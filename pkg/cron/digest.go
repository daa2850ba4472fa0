package cron

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"expense_manager/internal/models"
	"expense_manager/internal/services"
	"expense_manager/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const digestDays = 7

type Breakdowner interface {
	Breakdown(ctx context.Context, start, end time.Time) (models.Breakdown, error)
}

// Digest reports the previous week of spending per category.
type Digest struct {
	analytics Breakdowner
	sender    utils.Sender
	recipient string
	logger    logrus.FieldLogger
	now       func() time.Time
}

// NewDigest builds a digest job. A nil sender or empty recipient makes the
// job log its totals instead of mailing them.
func NewDigest(analytics Breakdowner, sender utils.Sender, recipient string, logger logrus.FieldLogger) *Digest {
	return &Digest{
		analytics: analytics,
		sender:    sender,
		recipient: recipient,
		logger:    utils.Component(logger, "digest"),
		now:       time.Now,
	}
}

// Window returns the inclusive seven day range ending yesterday.
func (d *Digest) Window() (time.Time, time.Time) {
	y, m, day := d.now().UTC().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, -1)
	return end.AddDate(0, 0, -(digestDays - 1)), end
}

func (d *Digest) Run(ctx context.Context) error {
	start, end := d.Window()

	breakdown, err := d.analytics.Breakdown(ctx, start, end)
	if err != nil {
		return fmt.Errorf("compute digest breakdown: %w", err)
	}

	shares := services.SortedBreakdown(breakdown)
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Total)
	}

	entry := d.logger.WithFields(logrus.Fields{
		"start_date": start.Format(models.DateLayout),
		"end_date":   end.Format(models.DateLayout),
		"categories": len(shares),
		"total":      total.StringFixed(2),
	})

	if d.sender == nil || d.recipient == "" {
		entry.Info("spending digest computed, no recipient configured")
		return nil
	}

	body, err := RenderDigest(start, end, total, shares)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Spending digest %s to %s", start.Format(models.DateLayout), end.Format(models.DateLayout))
	if err := d.sender.Send(d.recipient, subject, body); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	entry.WithField("recipient", d.recipient).Info("spending digest sent")
	return nil
}

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"money":   func(d decimal.Decimal) string { return d.StringFixed(2) },
	"percent": func(f float64) string { return fmt.Sprintf("%.2f", f) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Spending digest</title>
<style>
	body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; color: #333; }
	.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; padding: 18px; }
	table { width: 100%; border-collapse: collapse; font-size: 14px; }
	th, td { text-align: left; padding: 6px 4px; border-bottom: 1px solid #eee; }
	td.num, th.num { text-align: right; }
</style>
</head>
<body>
<div class="container">
	<h1>Expense breakdown by category</h1>
	<p>{{.Start}} to {{.End}}</p>
	{{if .Shares}}
	<table>
		<tr><th>Category</th><th class="num">Total</th><th class="num">Percentage</th></tr>
		{{range .Shares}}<tr><td>{{.Category}}</td><td class="num">{{money .Total}}</td><td class="num">{{percent .Percentage}}%</td></tr>
		{{end}}
		<tr><th>Total</th><th class="num">{{money .Total}}</th><th></th></tr>
	</table>
	{{else}}
	<p>No expenses were recorded in this period.</p>
	{{end}}
</div>
</body>
</html>
`))

func RenderDigest(start, end time.Time, total decimal.Decimal, shares []models.CategoryShare) (string, error) {
	var buf bytes.Buffer
	err := digestTemplate.Execute(&buf, struct {
		Start, End string
		Total      decimal.Decimal
		Shares     []models.CategoryShare
	}{
		Start:  start.Format(models.DateLayout),
		End:    end.Format(models.DateLayout),
		Total:  total,
		Shares: shares,
	})
	if err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return buf.String(), nil
}
