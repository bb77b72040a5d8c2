// Package report writes pipeline artifacts as CSV files.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"fintrend/internal/budget"
	"fintrend/internal/core"
)

// Writer emits CSV artifacts into a single output directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteProcessed writes the cleaned, categorized transactions.
func (w *Writer) WriteProcessed(name string, txs []core.Transaction) error {
	records := [][]string{{
		"date", "description", "amount", "type", "account", "mode",
		"category", "signed_amount", "year", "month", "day",
	}}
	for _, tx := range txs {
		records = append(records, []string{
			tx.Date.ISO(),
			tx.Description,
			formatFloat(tx.Amount),
			string(tx.Direction),
			tx.Account,
			tx.Mode,
			tx.Category,
			formatFloat(tx.SignedAmount()),
			strconv.Itoa(tx.Date.Year()),
			strconv.Itoa(tx.Date.Month()),
			strconv.Itoa(tx.Date.Day()),
		})
	}
	return w.write(name, records)
}

// WriteMonthlyCategorySpend writes per-month per-category outflow totals.
func (w *Writer) WriteMonthlyCategorySpend(name string, rows []budget.CategoryMonthSpend) error {
	records := [][]string{{"month", "category", "spend"}}
	for _, r := range rows {
		records = append(records, []string{r.Month, r.Category, formatFloat(r.Spend)})
	}
	return w.write(name, records)
}

// WriteAlerts writes the full alert table, critical or not.
func (w *Writer) WriteAlerts(name string, alerts []budget.AlertRow) error {
	records := [][]string{{"scope", "category", "month", "spend", "cap", "remaining", "pct", "status"}}
	for _, a := range alerts {
		records = append(records, []string{
			string(a.Scope),
			a.Category,
			a.Month,
			formatFloat(a.Spend),
			formatFloatPtr(a.Cap),
			formatFloatPtr(a.Remaining),
			formatFloatPtr(a.Pct),
			string(a.Status),
		})
	}
	return w.write(name, records)
}

// WriteForecast writes history and projection as one series with a flag
// column separating observed from forecast months.
func (w *Writer) WriteForecast(name string, history, forecast []budget.MonthlySpend) error {
	records := [][]string{{"month", "spend", "forecast"}}
	for _, m := range history {
		records = append(records, []string{m.Month.Format("2006-01"), formatFloat(m.Spend), "0"})
	}
	for _, m := range forecast {
		records = append(records, []string{m.Month.Format("2006-01"), formatFloat(m.Spend), "1"})
	}
	return w.write(name, records)
}

// CategorySpend is one aggregated spend row for window summaries.
type CategorySpend struct {
	Name  string
	Spend float64
}

// WriteCategorySpend writes a generic name/spend table, used for the weekly
// category and top-description artifacts.
func (w *Writer) WriteCategorySpend(name, keyHeader string, rows []CategorySpend) error {
	records := [][]string{{keyHeader, "spend"}}
	for _, r := range rows {
		records = append(records, []string{r.Name, formatFloat(r.Spend)})
	}
	return w.write(name, records)
}

func (w *Writer) write(name string, records [][]string) error {
	path := w.Path(name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
