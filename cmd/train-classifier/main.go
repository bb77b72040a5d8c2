package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fintrend/internal/categorize"
	"fintrend/internal/config"
	"fintrend/internal/ingest"
	"fintrend/internal/log"
)

func main() {
	_ = godotenv.Load()

	input := flag.String("input", "", "CSV with columns: description,category")
	out := flag.String("out", "", "model output path (defaults to MODEL_PATH)")
	flag.Parse()

	logger := log.New(log.Config{Component: log.ComponentTrainer})
	log.SetDefault(logger)

	if *input == "" {
		logger.Error("missing required -input flag")
		os.Exit(1)
	}

	modelPath := *out
	if modelPath == "" {
		modelPath = config.Load().ModelPath
	}

	samples, err := loadSamples(*input)
	if err != nil {
		logger.Error("failed to load training data",
			log.FieldInput, *input, log.FieldError, err.Error())
		os.Exit(1)
	}

	if err := categorize.Train(samples, modelPath); err != nil {
		logger.Error("training failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	logger.Info("model saved",
		log.FieldRows, len(samples),
		log.FieldOutput, modelPath)
}

func loadSamples(path string) ([]categorize.Sample, error) {
	table, err := ingest.Load(path)
	if err != nil {
		return nil, err
	}

	descIdx := table.ColumnIndex("description")
	catIdx := table.ColumnIndex("category")
	if descIdx < 0 || catIdx < 0 {
		return nil, fmt.Errorf("training data needs description and category columns, got %v", table.Columns)
	}

	samples := make([]categorize.Sample, 0, table.Len())
	for _, row := range table.Rows {
		samples = append(samples, categorize.Sample{
			Description: row[descIdx],
			Category:    row[catIdx],
		})
	}
	return samples, nil
}
