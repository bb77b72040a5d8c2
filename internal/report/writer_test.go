package report

import (
	"encoding/csv"
	"os"
	"testing"
	"time"

	"fintrend/internal/budget"
	"fintrend/internal/core"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return records
}

func TestWriteProcessed(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	txs := []core.Transaction{
		{
			Date:        core.NewDate(2025, 8, 14),
			Description: "BigBasket order",
			Amount:      1250.5,
			Direction:   core.Debit,
			Account:     "HDFC",
			Mode:        "UPI",
			Category:    "Groceries",
		},
	}
	if err := w.WriteProcessed("processed.csv", txs); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, w.Path("processed.csv"))
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(records))
	}
	row := records[1]
	if row[0] != "2025-08-14" {
		t.Errorf("date = %q", row[0])
	}
	if row[7] != "-1250.5" {
		t.Errorf("signed_amount = %q, want -1250.5", row[7])
	}
	if row[8] != "2025" || row[9] != "8" || row[10] != "14" {
		t.Errorf("date parts = %v", row[8:])
	}
}

func TestWriteAlertsNilFieldsEmpty(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	alerts := []budget.AlertRow{
		{Scope: budget.ScopeTotal, Category: "TOTAL", Month: "2025-08", Spend: 100, Status: budget.StatusNA},
	}
	if err := w.WriteAlerts("alerts.csv", alerts); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, w.Path("alerts.csv"))
	row := records[1]
	if row[4] != "" || row[5] != "" || row[6] != "" {
		t.Errorf("uncapped row should leave cap/remaining/pct empty, got %v", row)
	}
}

func TestWriteForecastFlagsRows(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	history := []budget.MonthlySpend{{Month: jan, Spend: 100}}
	forecast := []budget.MonthlySpend{{Month: jan.AddDate(0, 1, 0), Spend: 110}}

	if err := w.WriteForecast("forecast.csv", history, forecast); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, w.Path("forecast.csv"))
	if records[1][2] != "0" || records[2][2] != "1" {
		t.Errorf("forecast flags wrong: %v", records)
	}
	if records[2][0] != "2025-02" {
		t.Errorf("forecast month = %q, want 2025-02", records[2][0])
	}
}
