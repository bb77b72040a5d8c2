package notify

import (
	"fmt"
	"strings"

	"fintrend/internal/budget"
)

// FormatAlerts renders the critical alert rows as a plain-text message body.
// Rows arrive already sorted by the budget evaluation.
func FormatAlerts(alerts []budget.AlertRow) string {
	var b strings.Builder
	b.WriteString("Budget alerts\n")
	b.WriteString("=============\n\n")
	for _, a := range alerts {
		b.WriteString(FormatAlertLine(a))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatAlertLine renders one alert row, e.g.
// [OVER] CATEGORY :: Groceries (2025-08) spend 16,500.00 / cap 15,000.00 (110.0% used, remaining -1,500.00)
func FormatAlertLine(a budget.AlertRow) string {
	label := string(a.Scope)
	if a.Scope == budget.ScopeCategory {
		label = fmt.Sprintf("%s :: %s", a.Scope, a.Category)
	}

	capStr := "n/a"
	pctStr := "n/a"
	remStr := "n/a"
	if a.Cap != nil {
		capStr = FormatAmount(*a.Cap)
	}
	if a.Pct != nil {
		pctStr = fmt.Sprintf("%.1f%%", *a.Pct*100)
	}
	if a.Remaining != nil {
		remStr = FormatAmount(*a.Remaining)
	}

	return fmt.Sprintf("[%s] %s (%s) spend %s / cap %s (%s used, remaining %s)",
		a.Status, label, a.Month, FormatAmount(a.Spend), capStr, pctStr, remStr)
}

// FormatAmount prints a money value with thousands separators and two
// decimals.
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)

	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
