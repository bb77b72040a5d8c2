package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fintrend/internal/budget"
	"fintrend/internal/categorize"
	"fintrend/internal/clean"
	"fintrend/internal/config"
	"fintrend/internal/core"
	"fintrend/internal/forecast"
	"fintrend/internal/log"
	"fintrend/internal/notify"
)

func testLogger() *log.Logger {
	return log.New(log.Config{
		Component: "test",
		Handler:   slog.NewTextHandler(io.Discard, nil),
	})
}

type recordingChannel struct {
	bodies []string
}

func (r *recordingChannel) Name() string     { return "recording" }
func (r *recordingChannel) Configured() bool { return true }

func (r *recordingChannel) Send(ctx context.Context, subject, body string) error {
	r.bodies = append(r.bodies, body)
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestService(t *testing.T, dir string, ch notify.Channel) *PipelineService {
	t.Helper()
	logger := testLogger()

	rulesPath := filepath.Join(dir, "rules.yml")
	writeFile(t, rulesPath, `
rules:
  Groceries:
    - bigbasket
    - dmart
  Transport:
    - uber
`)
	budgetsPath := filepath.Join(dir, "budgets.yml")
	writeFile(t, budgetsPath, `
monthly_total_cap: 50000
warn_threshold: 0.9
categories:
  Groceries: 1000
`)

	rules, err := categorize.LoadRules(rulesPath)
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{BudgetsPath: budgetsPath}
	return NewPipelineService(
		cfg,
		logger,
		clean.New(),
		categorize.New(rules, nil, logger),
		forecast.NewAdapter(logger),
		notify.NewDispatcher(logger, time.Second, ch),
	)
}

const sampleCSV = `Date,Description,Amount,Type
2025-08-01,BigBasket weekly,900,DEBIT
2025-08-03,Uber ride,250,DEBIT
2025-08-05,Salary,50000,CREDIT
2025-08-07,BigBasket top-up,400,DEBIT
not-a-date,Broken row,10,DEBIT
`

func TestPipelineRunWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "transactions.csv"), sampleCSV)
	outDir := filepath.Join(dir, "outputs")

	svc := newTestService(t, dir, &recordingChannel{})
	result, err := svc.Run(context.Background(), RunOptions{
		InputGlob: filepath.Join(dir, "*.csv"),
		OutputDir: outDir,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Transactions != 4 {
		t.Errorf("Transactions = %d, want 4", result.Transactions)
	}
	if result.RowsDropped != 1 {
		t.Errorf("RowsDropped = %d, want 1", result.RowsDropped)
	}

	for _, name := range []string{"processed.csv", "monthly_category_spend.csv", "alerts.csv", "forecast.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}

	// Groceries spent 1300 against a 1000 cap.
	var groceries *budget.AlertRow
	for i := range result.Alerts {
		if result.Alerts[i].Category == "Groceries" {
			groceries = &result.Alerts[i]
		}
	}
	if groceries == nil {
		t.Fatal("no Groceries alert row")
	}
	if groceries.Status != budget.StatusOver {
		t.Errorf("Groceries status = %v, want OVER", groceries.Status)
	}
}

func TestPipelineRunDispatchesWhenCritical(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "transactions.csv"), sampleCSV)

	ch := &recordingChannel{}
	svc := newTestService(t, dir, ch)
	result, err := svc.Run(context.Background(), RunOptions{
		InputGlob: filepath.Join(dir, "*.csv"),
		OutputDir: filepath.Join(dir, "outputs"),
		Notify:    true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Dispatch) != 1 || result.Dispatch[0].Status != notify.StatusSent {
		t.Fatalf("dispatch results = %+v, want one sent", result.Dispatch)
	}
	if len(ch.bodies) != 1 || !strings.Contains(ch.bodies[0], "Groceries") {
		t.Errorf("dispatched body missing alert: %v", ch.bodies)
	}
}

func TestPipelineRunSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.csv"), sampleCSV)
	writeFile(t, filepath.Join(dir, "empty.csv"), "")

	svc := newTestService(t, dir, &recordingChannel{})
	result, err := svc.Run(context.Background(), RunOptions{
		InputGlob: filepath.Join(dir, "*.csv"),
		OutputDir: filepath.Join(dir, "outputs"),
	})
	if err != nil {
		t.Fatalf("Run should survive one bad file: %v", err)
	}
	if result.FilesLoaded != 1 || result.FilesSkipped != 1 {
		t.Errorf("files loaded=%d skipped=%d, want 1/1", result.FilesLoaded, result.FilesSkipped)
	}
}

func TestPipelineRunFailsWithNoInput(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir, &recordingChannel{})
	_, err := svc.Run(context.Background(), RunOptions{
		InputGlob: filepath.Join(dir, "nothing", "*.csv"),
		OutputDir: filepath.Join(dir, "outputs"),
	})
	if err == nil {
		t.Fatal("expected error when no files match")
	}
}

func TestSummaryBuild(t *testing.T) {
	b := NewSummaryBuilder()
	b.now = func() time.Time {
		return time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	}

	txs := []core.Transaction{
		{Date: core.NewDate(2025, 8, 12), Description: "BigBasket", Amount: 500, Direction: core.Debit, Category: "Groceries"},
		{Date: core.NewDate(2025, 8, 13), Description: "Uber", Amount: 200, Direction: core.Debit, Category: "Transport"},
		{Date: core.NewDate(2025, 8, 14), Description: "Salary", Amount: 10000, Direction: core.Credit, Category: "Income"},
		// Previous window.
		{Date: core.NewDate(2025, 8, 3), Description: "DMart", Amount: 900, Direction: core.Debit, Category: "Groceries"},
	}

	body := b.Build(txs, nil, 7)

	if !strings.Contains(body, "Finance Summary (last 7 days)") {
		t.Errorf("missing header:\n%s", body)
	}
	if !strings.Contains(body, "Spend:  700.00  (prev 900.00)") {
		t.Errorf("window totals wrong:\n%s", body)
	}
	if !strings.Contains(body, "Income: 10,000.00") {
		t.Errorf("income wrong:\n%s", body)
	}
	if !strings.Contains(body, "- Groceries: 500.00") {
		t.Errorf("top categories wrong:\n%s", body)
	}
	if !strings.Contains(body, "Critical Budget Alerts (NEAR/OVER):\nNone") {
		t.Errorf("alerts block wrong:\n%s", body)
	}
}
