package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Configuration documents
	RulesPath          string
	BudgetsPath        string
	NotifySettingsPath string
	ModelPath          string

	// Scheduler state
	StateBackend string // file | sqlite | memory
	StatePath    string
	StateDBPath  string

	// Email (SMTP submission)
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string
	EmailTo   []string

	// Telegram
	TelegramBotToken string
	TelegramChatID   int64

	// AMQP (optional alert fan-out)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets ingestion (optional)
	GoogleSpreadsheetID string
	GoogleSheetRange    string

	// Delivery
	DispatchTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		RulesPath:          getEnv("RULES_PATH", "config/category_rules.yml"),
		BudgetsPath:        getEnv("BUDGETS_PATH", "config/budgets.yml"),
		NotifySettingsPath: getEnv("NOTIFY_SETTINGS_PATH", "config/notify_settings.yml"),
		ModelPath:          getEnv("MODEL_PATH", "models/category_model"),

		StateBackend: getEnv("STATE_BACKEND", "file"),
		StatePath:    getEnv("STATE_PATH", "state/notify_state.json"),
		StateDBPath:  getEnv("STATE_DB_PATH", "./data/fintrend.db"),

		SMTPHost:  getEnv("SMTP_HOST", ""),
		SMTPPort:  getEnvInt("SMTP_PORT", 587),
		SMTPUser:  getEnv("SMTP_USER", ""),
		SMTPPass:  getEnv("SMTP_PASS", ""),
		EmailFrom: getEnv("EMAIL_FROM", ""),
		EmailTo:   splitList(getEnv("EMAIL_TO", "")),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrend"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget_alerts"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:    getEnv("GOOGLE_SHEET_RANGE", "Transactions!A:Z"),

		DispatchTimeout: getEnvDuration("DISPATCH_TIMEOUT", 15*time.Second),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"file", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.StateBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid state backend '%s': must be one of %v", c.StateBackend, validBackends))
	}

	if c.StateBackend == "file" && c.StatePath == "" {
		errors = append(errors, "state path cannot be empty when using file backend")
	}
	if c.StateBackend == "sqlite" && c.StateDBPath == "" {
		errors = append(errors, "state database path cannot be empty when using sqlite backend")
	}

	if c.SMTPHost != "" {
		if c.SMTPPort < 1 || c.SMTPPort > 65535 {
			errors = append(errors, fmt.Sprintf("invalid SMTP port %d: must be between 1 and 65535", c.SMTPPort))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DispatchTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid dispatch timeout %v: must be positive", c.DispatchTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// EmailConfigured reports whether all SMTP settings needed for sending exist.
func (c *Config) EmailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != "" &&
		c.EmailFrom != "" && len(c.EmailTo) > 0
}

// TelegramConfigured reports whether the bot token and chat id are present.
func (c *Config) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
