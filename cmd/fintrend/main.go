package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrend/internal/categorize"
	"fintrend/internal/clean"
	"fintrend/internal/config"
	"fintrend/internal/forecast"
	"fintrend/internal/ingest"
	"fintrend/internal/log"
	"fintrend/internal/notify"
	"fintrend/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	inputGlob := flag.String("input", "data/*.csv", "glob for CSV/Excel input files")
	outputDir := flag.String("output", "outputs", "output directory for CSV artifacts")
	days := flag.Int("days", 7, "lookback window in days for the recent-activity artifacts")
	doNotify := flag.Bool("notify", false, "send alerts over the configured channels when any row is critical")
	flag.Parse()

	logger := log.New(log.Config{Component: log.ComponentPipeline})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, closeFn, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer closeFn()

	if cfg.GoogleSpreadsheetID != "" {
		src, err := ingest.NewSheetsSource(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetRange)
		if err != nil {
			logger.Warn("Google Sheets source unavailable", log.FieldError, err.Error())
		} else {
			svc.AddSource(src)
		}
	}

	result, err := svc.Run(ctx, services.RunOptions{
		InputGlob:    *inputGlob,
		OutputDir:    *outputDir,
		LookbackDays: *days,
		Notify:       *doNotify,
	})
	if err != nil {
		logger.Error("pipeline run failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	logger.Info("done",
		log.FieldRows, result.Transactions,
		log.FieldDropped, result.RowsDropped,
		log.FieldOutput, *outputDir)
	for _, r := range result.Dispatch {
		logger.Info("dispatch result", log.FieldChannel, r.Channel, log.FieldStatus, string(r.Status))
	}
}

// buildPipeline assembles the service from configuration. The returned
// close function releases any channel connections.
func buildPipeline(cfg *config.Config, logger *log.Logger) (*services.PipelineService, func(), error) {
	rules, err := categorize.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, nil, err
	}
	model, err := categorize.LoadModel(cfg.ModelPath)
	if err != nil {
		logger.Warn("classifier model unavailable, falling back to rules only",
			log.FieldPath, cfg.ModelPath, log.FieldError, err.Error())
		model = nil
	}

	channels := []notify.Channel{
		notify.NewEmailChannel(cfg),
		notify.NewTelegramChannel(cfg),
	}
	closeFn := func() {}
	if cfg.AMQPURL != "" {
		amqpCh, err := notify.NewAMQPChannel(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
			logger.WithComponent(log.ComponentNotify))
		if err != nil {
			logger.Warn("AMQP channel unavailable", log.FieldError, err.Error())
		} else {
			channels = append(channels, amqpCh)
			closeFn = func() { amqpCh.Close() }
		}
	}

	svc := services.NewPipelineService(
		cfg,
		logger,
		clean.New(),
		categorize.New(rules, model, logger.WithComponent(log.ComponentCategorize)),
		forecast.NewAdapter(logger.WithComponent(log.ComponentForecast)),
		notify.NewDispatcher(logger.WithComponent(log.ComponentNotify), cfg.DispatchTimeout, channels...),
	)
	return svc, closeFn, nil
}
