package budget

import (
	"math"
	"testing"

	"fintrend/internal/core"
)

func capOf(v float64) *float64 { return &v }

func spendTx(y, m, d int, amount float64, category string) core.Transaction {
	return core.Transaction{
		Date:      core.NewDate(y, m, d),
		Amount:    amount,
		Direction: core.Debit,
		Category:  category,
	}
}

func incomeTx(y, m, d int, amount float64) core.Transaction {
	return core.Transaction{
		Date:      core.NewDate(y, m, d),
		Amount:    amount,
		Direction: core.Credit,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		spend         float64
		cap           *float64
		warn          float64
		wantStatus    Status
		wantPct       float64
		wantRemaining float64
	}{
		{"no cap", 1000, nil, 0.9, StatusNA, 0, 0},
		{"ok under threshold", 12345, capOf(15000), 0.9, StatusOK, 0.823, 2655},
		{"near above threshold", 14000, capOf(15000), 0.9, StatusNear, 0.9333, 1000},
		{"over", 15500, capOf(15000), 0.9, StatusOver, 1.0333, -500},
		{"exactly at cap is near not over", 15000, capOf(15000), 0.9, StatusNear, 1.0, 0},
		{"zero cap with spend", 10, capOf(0), 0.9, StatusOver, 0, -10},
		{"zero cap zero spend", 0, capOf(0), 0.9, StatusOK, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, pct, remaining := Classify(tt.spend, tt.cap, tt.warn)
			if status != tt.wantStatus {
				t.Errorf("status = %s, want %s", status, tt.wantStatus)
			}
			if tt.cap == nil {
				if pct != nil || remaining != nil {
					t.Error("pct/remaining must be nil without a cap")
				}
				return
			}
			if pct == nil || math.Abs(*pct-tt.wantPct) > 0.001 {
				t.Errorf("pct = %v, want %v", pct, tt.wantPct)
			}
			if remaining == nil || math.Abs(*remaining-tt.wantRemaining) > 0.001 {
				t.Errorf("remaining = %v, want %v", remaining, tt.wantRemaining)
			}
		})
	}
}

func TestCurrentMonthUsesLatestDate(t *testing.T) {
	txs := []core.Transaction{
		spendTx(2025, 6, 15, 100, "Food"),
		spendTx(2025, 8, 2, 100, "Food"),
		spendTx(2025, 7, 30, 100, "Food"),
	}
	month, ok := CurrentMonth(txs)
	if !ok || month != "2025-08" {
		t.Errorf("CurrentMonth = (%q, %v), want (2025-08, true)", month, ok)
	}

	if _, ok := CurrentMonth(nil); ok {
		t.Error("empty dataset should report no current month")
	}
}

func TestBuildAlerts(t *testing.T) {
	cfg := Config{
		MonthlyTotalCap: capOf(20000),
		WarnThreshold:   0.9,
		CategoryCaps: []CategoryCap{
			{Category: "Food", Cap: 5000},
			{Category: "Transport", Cap: 3000},
			{Category: "Books", Cap: 1000},
		},
	}

	txs := []core.Transaction{
		// Prior month spend must not count.
		spendTx(2025, 7, 10, 9999, "Food"),
		// Current month (August).
		spendTx(2025, 8, 1, 4800, "Food"),      // NEAR (0.96)
		spendTx(2025, 8, 3, 3500, "Transport"), // OVER
		spendTx(2025, 8, 5, 200, "Rent"),       // no cap: counts in total only
		incomeTx(2025, 8, 6, 50000),            // inflow never counts as spend
	}

	rows := BuildAlerts(txs, cfg)

	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 1 TOTAL + 3 capped categories", len(rows))
	}

	// TOTAL first.
	total := rows[0]
	if total.Scope != ScopeTotal || total.Category != "TOTAL" {
		t.Fatalf("first row = %+v, want TOTAL scope", total)
	}
	if total.Spend != 8500 {
		t.Errorf("total spend = %v, want 8500", total.Spend)
	}
	if total.Month != "2025-08" {
		t.Errorf("month = %q, want 2025-08", total.Month)
	}
	if total.Status != StatusOK {
		t.Errorf("total status = %s, want OK", total.Status)
	}

	// Category rows: worst status first, then larger spend first.
	wantOrder := []struct {
		category string
		status   Status
		spend    float64
	}{
		{"Transport", StatusOver, 3500},
		{"Food", StatusNear, 4800},
		{"Books", StatusOK, 0},
	}
	for i, want := range wantOrder {
		row := rows[i+1]
		if row.Category != want.category || row.Status != want.status || row.Spend != want.spend {
			t.Errorf("row %d = %s/%s/%v, want %s/%s/%v",
				i+1, row.Category, row.Status, row.Spend, want.category, want.status, want.spend)
		}
	}

	// Uncapped category with spend must not appear.
	for _, row := range rows {
		if row.Category == "Rent" {
			t.Error("uncapped category must not produce a row")
		}
	}
}

func TestBuildAlertsNoCaps(t *testing.T) {
	rows := BuildAlerts([]core.Transaction{spendTx(2025, 8, 1, 100, "Food")}, DefaultConfig())
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want single TOTAL row", len(rows))
	}
	if rows[0].Status != StatusNA || rows[0].Cap != nil || rows[0].Pct != nil || rows[0].Remaining != nil {
		t.Errorf("uncapped TOTAL row = %+v, want N/A with nil cap fields", rows[0])
	}
}
