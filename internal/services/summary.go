package services

import (
	"fmt"
	"strings"
	"time"

	"fintrend/internal/budget"
	"fintrend/internal/core"
	"fintrend/internal/notify"
	"fintrend/internal/report"
)

const topEntries = 5

// trailingMonths is the comparison window for the month-over-average line.
const trailingMonths = 3

// SummaryBuilder renders the periodic digest: totals for the window against
// the previous window, top categories and descriptions, this month against
// the trailing average, and any critical alerts.
type SummaryBuilder struct {
	now func() time.Time
}

func NewSummaryBuilder() *SummaryBuilder {
	return &SummaryBuilder{now: time.Now}
}

// Build renders the digest body for the last `days` days.
func (b *SummaryBuilder) Build(txs []core.Transaction, alerts []budget.AlertRow, days int) string {
	end := startOfDay(b.now().UTC())
	start := end.AddDate(0, 0, -days)
	prevStart := start.AddDate(0, 0, -days)

	cur := filterWindow(txs, start, end)
	prev := filterWindow(txs, prevStart, start)

	curSpend, curIncome := windowTotals(cur)
	prevSpend, prevIncome := windowTotals(prev)

	topCategories := topN(spendBy(cur, func(tx core.Transaction) string { return tx.Category }), topEntries)
	topDescriptions := topN(spendBy(cur, func(tx core.Transaction) string { return tx.Description }), topEntries)

	monthly := budget.MonthlyTotalSpend(txs)
	var thisMonth float64
	if len(monthly) > 0 {
		thisMonth = monthly[len(monthly)-1].Spend
	}
	trailing := budget.TrailingAverage(monthly, trailingMonths)
	deltaAbs := thisMonth - trailing
	deltaPct := 0.0
	if trailing > 0 {
		deltaPct = deltaAbs / trailing * 100
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Finance Summary (last %d days)", days))
	lines = append(lines, fmt.Sprintf("Window: %s to %s (exclusive of end date)",
		start.Format("2006-01-02"), end.Format("2006-01-02")))
	lines = append(lines, "")
	lines = append(lines, "Totals:")
	lines = append(lines, fmt.Sprintf("  Spend:  %s  (prev %s)", currency(curSpend), currency(prevSpend)))
	lines = append(lines, fmt.Sprintf("  Income: %s  (prev %s)", currency(curIncome), currency(prevIncome)))
	lines = append(lines, "")
	lines = append(lines, "Top Categories:")
	lines = append(lines, rankedLines(topCategories)...)
	lines = append(lines, "")
	lines = append(lines, "Top Merchants (by Description):")
	lines = append(lines, rankedLines(topDescriptions)...)
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("This Month vs %d-Month Avg:", trailingMonths))
	lines = append(lines, fmt.Sprintf("  This Month: %s", currency(thisMonth)))
	lines = append(lines, fmt.Sprintf("  %d-Mo Avg : %s  (delta %+.0f; %+.1f%%)",
		trailingMonths, currency(trailing), deltaAbs, deltaPct))
	lines = append(lines, "")
	lines = append(lines, "Critical Budget Alerts (NEAR/OVER):")
	lines = append(lines, criticalBlock(alerts))
	return strings.Join(lines, "\n")
}

func windowTotals(txs []core.Transaction) (spend, income float64) {
	for _, tx := range txs {
		if tx.IsOutflow() {
			spend += tx.Amount
		} else {
			income += tx.Amount
		}
	}
	return spend, income
}

func topN(rows []report.CategorySpend, n int) []report.CategorySpend {
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func rankedLines(rows []report.CategorySpend) []string {
	if len(rows) == 0 {
		return []string{"  (no spend)"}
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("  - %s: %s", r.Name, currency(r.Spend))
	}
	return out
}

func criticalBlock(alerts []budget.AlertRow) string {
	var lines []string
	for _, a := range alerts {
		if a.Critical() {
			lines = append(lines, notify.FormatAlertLine(a))
		}
	}
	if len(lines) == 0 {
		return "None"
	}
	return strings.Join(lines, "\n")
}

func currency(v float64) string {
	return notify.FormatAmount(v)
}
