package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrend/internal/categorize"
	"fintrend/internal/clean"
	"fintrend/internal/config"
	"fintrend/internal/forecast"
	"fintrend/internal/log"
	"fintrend/internal/notify"
	"fintrend/internal/schedule"
	"fintrend/internal/services"
	"fintrend/internal/state"
)

// lookbackDays maps the schedule cadence to the digest window.
var lookbackDays = map[schedule.Frequency]int{
	schedule.Weekly:   7,
	schedule.Biweekly: 14,
	schedule.Monthly:  30,
}

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	inputGlob := flag.String("input", "data/*.csv", "glob for CSV/Excel input files")
	outputDir := flag.String("output", "outputs", "output directory for CSV artifacts")
	force := flag.Bool("force", false, "run even when the schedule says today is not due")
	flag.Parse()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	settings, err := schedule.LoadSettings(cfg.NotifySettingsPath)
	if err != nil {
		logger.Error("failed to load notify settings",
			log.FieldPath, cfg.NotifySettingsPath, log.FieldError, err.Error())
		os.Exit(1)
	}

	store, err := state.Open(cfg)
	if err != nil {
		logger.Error("failed to open state store", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	now := time.Now()
	scheduler := schedule.NewScheduler(settings, store)
	if !*force {
		due, err := scheduler.IsDueToday(ctx, now)
		if err != nil {
			logger.Error("schedule check failed", log.FieldError, err.Error())
			os.Exit(1)
		}
		if !due {
			logger.Info("no notification due today",
				log.FieldFrequency, string(settings.Frequency))
			return
		}
	}

	svc, closeFn, err := buildWorkerPipeline(cfg, settings, logger)
	if err != nil {
		logger.Error("failed to build pipeline", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer closeFn()

	days := lookbackDays[settings.Frequency]
	if days == 0 {
		days = 7
	}

	result, err := svc.Run(ctx, services.RunOptions{
		InputGlob:    *inputGlob,
		OutputDir:    *outputDir,
		LookbackDays: days,
		Notify:       true,
		Digest:       true,
	})
	if err != nil {
		logger.Error("pipeline run failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	// Record the run after the dispatch attempt. A crash in between can
	// repeat a notification on the next run but never silently drop one.
	if err := scheduler.MarkSent(ctx, now); err != nil {
		logger.Error("failed to record dispatch date", log.FieldError, err.Error())
		os.Exit(1)
	}

	for _, r := range append(result.Dispatch, result.DigestSent...) {
		logger.Info("dispatch result", log.FieldChannel, r.Channel, log.FieldStatus, string(r.Status))
	}
	logger.Info("scheduled run complete",
		log.FieldRows, result.Transactions,
		log.FieldFrequency, string(settings.Frequency))
}

// buildWorkerPipeline assembles the pipeline with only the channels the
// schedule settings enable.
func buildWorkerPipeline(cfg *config.Config, settings schedule.Settings, logger *log.Logger) (*services.PipelineService, func(), error) {
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

	var channels []notify.Channel
	if settings.Channels.Email {
		channels = append(channels, notify.NewEmailChannel(cfg))
	}
	if settings.Channels.Telegram {
		channels = append(channels, notify.NewTelegramChannel(cfg))
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
