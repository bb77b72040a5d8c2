package budget

import (
	"sort"

	"fintrend/internal/core"
)

type Status string

const (
	StatusOK   Status = "OK"
	StatusNear Status = "NEAR"
	StatusOver Status = "OVER"
	StatusNA   Status = "N/A"
)

type Scope string

const (
	ScopeTotal    Scope = "TOTAL"
	ScopeCategory Scope = "CATEGORY"
)

// AlertRow is one evaluated cap. Cap, Remaining and Pct are nil when no cap
// is configured for the scope.
type AlertRow struct {
	Scope     Scope
	Category  string
	Month     string
	Spend     float64
	Cap       *float64
	Remaining *float64
	Pct       *float64
	Status    Status
}

// Critical reports whether the row belongs in a notification.
func (r AlertRow) Critical() bool {
	return r.Status == StatusNear || r.Status == StatusOver
}

// Classify evaluates spend against a cap.
//
//	cap absent        -> N/A, no pct, no remaining
//	spend > cap       -> OVER
//	pct >= threshold  -> NEAR
//	otherwise         -> OK
//
// Pct is 0 when cap is 0 so a zero cap never divides. Remaining may be
// negative when OVER.
func Classify(spend float64, cap *float64, warnThreshold float64) (Status, *float64, *float64) {
	if cap == nil {
		return StatusNA, nil, nil
	}
	pct := 0.0
	if *cap > 0 {
		pct = spend / *cap
	}
	remaining := *cap - spend

	switch {
	case spend > *cap:
		return StatusOver, &pct, &remaining
	case pct >= warnThreshold:
		return StatusNear, &pct, &remaining
	default:
		return StatusOK, &pct, &remaining
	}
}

// CurrentMonth is the calendar month of the latest date in the dataset, not
// the wall clock, so historical datasets evaluate reproducibly.
func CurrentMonth(txs []core.Transaction) (string, bool) {
	if len(txs) == 0 {
		return "", false
	}
	latest := txs[0].Date
	for _, tx := range txs[1:] {
		if latest.Before(tx.Date) {
			latest = tx.Date
		}
	}
	return latest.MonthKey(), true
}

// BuildAlerts evaluates the current month's spend against every configured
// cap: exactly one TOTAL row, plus one row per capped category. Categories
// without caps never appear, even with spend; capped categories with no
// spend appear with spend 0.
func BuildAlerts(txs []core.Transaction, cfg Config) []AlertRow {
	month, _ := CurrentMonth(txs)

	var totalSpend float64
	catSpend := make(map[string]float64)
	for _, tx := range txs {
		if tx.Date.MonthKey() != month {
			continue
		}
		signed := tx.SignedAmount()
		if signed >= 0 {
			continue
		}
		totalSpend += -signed
		catSpend[tx.Category] += -signed
	}

	rows := make([]AlertRow, 0, 1+len(cfg.CategoryCaps))

	status, pct, remaining := Classify(totalSpend, cfg.MonthlyTotalCap, cfg.WarnThreshold)
	rows = append(rows, AlertRow{
		Scope:     ScopeTotal,
		Category:  "TOTAL",
		Month:     month,
		Spend:     totalSpend,
		Cap:       cfg.MonthlyTotalCap,
		Remaining: remaining,
		Pct:       pct,
		Status:    status,
	})

	for _, cc := range cfg.CategoryCaps {
		capValue := cc.Cap
		spend := catSpend[cc.Category]
		status, pct, remaining := Classify(spend, &capValue, cfg.WarnThreshold)
		rows = append(rows, AlertRow{
			Scope:     ScopeCategory,
			Category:  cc.Category,
			Month:     month,
			Spend:     spend,
			Cap:       &capValue,
			Remaining: remaining,
			Pct:       pct,
			Status:    status,
		})
	}

	sortAlerts(rows)
	return rows
}

var scopeRank = map[Scope]int{ScopeTotal: 0, ScopeCategory: 1}

// severityRank orders alert tiers worst-first.
var severityRank = map[Status]int{StatusOver: 0, StatusNear: 1, StatusOK: 2, StatusNA: 3}

// sortAlerts orders rows TOTAL before CATEGORY, then worst status first,
// then largest spend first, so the most urgent items surface first in any
// rendering.
func sortAlerts(rows []AlertRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if scopeRank[rows[i].Scope] != scopeRank[rows[j].Scope] {
			return scopeRank[rows[i].Scope] < scopeRank[rows[j].Scope]
		}
		if severityRank[rows[i].Status] != severityRank[rows[j].Status] {
			return severityRank[rows[i].Status] < severityRank[rows[j].Status]
		}
		return rows[i].Spend > rows[j].Spend
	})
}
