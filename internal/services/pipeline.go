// Package services orchestrates the batch pipeline end to end.
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"fintrend/internal/budget"
	"fintrend/internal/categorize"
	"fintrend/internal/clean"
	"fintrend/internal/config"
	"fintrend/internal/core"
	"fintrend/internal/forecast"
	"fintrend/internal/ingest"
	"fintrend/internal/log"
	"fintrend/internal/notify"
	"fintrend/internal/report"
)

// forecastPeriods is how many months ahead the default run projects.
const forecastPeriods = 6

// RunOptions selects inputs and behavior for one pipeline run.
type RunOptions struct {
	// InputGlob matches the CSV/Excel files to ingest.
	InputGlob string
	// OutputDir receives the CSV artifacts.
	OutputDir string
	// LookbackDays sizes the recent-activity window artifacts. Zero skips
	// them.
	LookbackDays int
	// Notify sends alerts over the configured channels when any row is
	// critical.
	Notify bool
	// Digest additionally sends the period summary, critical or not.
	Digest bool
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	FilesLoaded  int
	FilesSkipped int
	Transactions int
	RowsDropped  int
	Alerts       []budget.AlertRow
	Dispatch     []notify.Result
	DigestSent   []notify.Result
}

// TableSource loads transactions from somewhere other than local files,
// for example a Google Sheet.
type TableSource interface {
	Load(ctx context.Context) (ingest.Table, error)
}

// PipelineService wires ingestion through dispatch.
type PipelineService struct {
	cfg         *config.Config
	logger      *log.Logger
	cleaner     *clean.Cleaner
	categorizer *categorize.Categorizer
	forecaster  *forecast.Adapter
	dispatcher  *notify.Dispatcher
	sources     []TableSource
	now         func() time.Time
}

func NewPipelineService(
	cfg *config.Config,
	logger *log.Logger,
	cleaner *clean.Cleaner,
	categorizer *categorize.Categorizer,
	forecaster *forecast.Adapter,
	dispatcher *notify.Dispatcher,
) *PipelineService {
	return &PipelineService{
		cfg:         cfg,
		logger:      logger,
		cleaner:     cleaner,
		categorizer: categorizer,
		forecaster:  forecaster,
		dispatcher:  dispatcher,
		now:         time.Now,
	}
}

// Run executes the full pipeline: load every matching file, clean and
// categorize, write artifacts, evaluate budgets, forecast, and optionally
// dispatch alerts. Individual files that fail to load are skipped with a
// warning; a run with no loadable input fails.
// AddSource registers an extra transaction source consulted on every run.
func (s *PipelineService) AddSource(src TableSource) {
	s.sources = append(s.sources, src)
}

func (s *PipelineService) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	txs, result, err := s.loadAll(ctx, opts.InputGlob)
	if err != nil {
		return nil, err
	}

	s.categorizer.Apply(txs)
	result.Transactions = len(txs)

	writer, err := report.NewWriter(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	if err := writer.WriteProcessed("processed.csv", txs); err != nil {
		return nil, err
	}
	if err := writer.WriteMonthlyCategorySpend("monthly_category_spend.csv", budget.MonthlyCategorySpend(txs)); err != nil {
		return nil, err
	}

	budgetCfg, err := budget.LoadConfig(s.cfg.BudgetsPath)
	if err != nil {
		return nil, fmt.Errorf("load budget config: %w", err)
	}
	result.Alerts = budget.BuildAlerts(txs, budgetCfg)
	if err := writer.WriteAlerts("alerts.csv", result.Alerts); err != nil {
		return nil, err
	}

	series := budget.MonthlyTotalSpend(txs)
	history, projection := s.forecaster.Forecast(series, forecastPeriods)
	if err := writer.WriteForecast("forecast.csv", history, projection); err != nil {
		return nil, err
	}

	if opts.LookbackDays > 0 {
		if err := s.writeWindowArtifacts(writer, txs, opts.LookbackDays); err != nil {
			return nil, err
		}
	}

	s.logger.Info("pipeline run complete",
		log.FieldRows, result.Transactions,
		log.FieldDropped, result.RowsDropped,
		log.FieldOutput, opts.OutputDir)

	if opts.Notify {
		result.Dispatch = s.dispatcher.DispatchAlerts(ctx, "Personal Finance: budget alerts", result.Alerts)
	}
	if opts.Digest {
		days := opts.LookbackDays
		if days <= 0 {
			days = 7
		}
		body := NewSummaryBuilder().Build(txs, result.Alerts, days)
		subject := fmt.Sprintf("Finance Summary (last %d days)", days)
		result.DigestSent = s.dispatcher.Dispatch(ctx, subject, body)
	}

	return result, nil
}

func (s *PipelineService) loadAll(ctx context.Context, pattern string) ([]core.Transaction, *RunResult, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("expand input glob %q: %w", pattern, err)
	}
	if len(paths) == 0 && len(s.sources) == 0 {
		return nil, nil, fmt.Errorf("no input files match %q", pattern)
	}
	sort.Strings(paths)

	result := &RunResult{}
	var txs []core.Transaction
	for _, path := range paths {
		table, err := ingest.Load(path)
		if err != nil {
			s.logger.Warn("skipping input file",
				log.FieldPath, path, log.FieldError, err.Error())
			result.FilesSkipped++
			continue
		}
		cleaned, dropped := s.cleaner.Clean(table)
		txs = append(txs, cleaned...)
		result.RowsDropped += dropped
		result.FilesLoaded++
	}
	for _, src := range s.sources {
		table, err := src.Load(ctx)
		if err != nil {
			s.logger.Warn("skipping transaction source", log.FieldError, err.Error())
			result.FilesSkipped++
			continue
		}
		cleaned, dropped := s.cleaner.Clean(table)
		txs = append(txs, cleaned...)
		result.RowsDropped += dropped
		result.FilesLoaded++
	}
	if result.FilesLoaded == 0 {
		return nil, nil, fmt.Errorf("no valid inputs: all %d candidates failed to load", result.FilesSkipped)
	}
	return txs, result, nil
}

// writeWindowArtifacts emits the recent-window category and description
// spend tables used by the digest.
func (s *PipelineService) writeWindowArtifacts(writer *report.Writer, txs []core.Transaction, days int) error {
	end := startOfDay(s.now().UTC())
	start := end.AddDate(0, 0, -days)

	window := filterWindow(txs, start, end)
	if err := writer.WriteCategorySpend("weekly_category_spend.csv", "category",
		spendBy(window, func(tx core.Transaction) string { return tx.Category })); err != nil {
		return err
	}
	return writer.WriteCategorySpend("weekly_top_descriptions.csv", "description",
		spendBy(window, func(tx core.Transaction) string { return tx.Description }))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// filterWindow keeps transactions with start <= date < end.
func filterWindow(txs []core.Transaction, start, end time.Time) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		d := tx.Date.Time
		if !d.Before(start) && d.Before(end) {
			out = append(out, tx)
		}
	}
	return out
}

// spendBy sums outflows per key, sorted by spend descending.
func spendBy(txs []core.Transaction, key func(core.Transaction) string) []report.CategorySpend {
	totals := map[string]float64{}
	for _, tx := range txs {
		if tx.IsOutflow() {
			totals[key(tx)] += tx.Amount
		}
	}
	out := make([]report.CategorySpend, 0, len(totals))
	for k, v := range totals {
		out = append(out, report.CategorySpend{Name: k, Spend: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		return out[i].Name < out[j].Name
	})
	return out
}
