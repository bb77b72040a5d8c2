// Package schedule decides whether a notification run is due today.
package schedule

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Frequency names how often notifications go out.
type Frequency string

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

// DefaultTimezone anchors schedule decisions when no zone is configured.
const DefaultTimezone = "Asia/Kolkata"

// Channels toggles each delivery channel independently.
type Channels struct {
	Email    bool `yaml:"email"`
	Telegram bool `yaml:"telegram"`
}

// Settings is the operator-editable notification schedule.
type Settings struct {
	Enabled       bool      `yaml:"enabled"`
	Channels      Channels  `yaml:"channels"`
	Frequency     Frequency `yaml:"frequency"`
	Timezone      string    `yaml:"timezone"`
	MonthlyDay    int       `yaml:"monthly_day"`
	WeeklyWeekday int       `yaml:"weekly_weekday"`
}

// DefaultSettings returns the disabled baseline: nothing sends until an
// operator turns it on.
func DefaultSettings() Settings {
	return Settings{
		Enabled:       false,
		Frequency:     Weekly,
		Timezone:      DefaultTimezone,
		MonthlyDay:    1,
		WeeklyWeekday: 0,
	}
}

// LoadSettings reads the schedule from path. A missing file yields the
// defaults so a fresh checkout runs without setup.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("read notify settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes and validates a settings document. Unspecified
// fields fall back to the defaults.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse notify settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	switch s.Frequency {
	case Weekly, Biweekly, Monthly:
	default:
		return fmt.Errorf("unknown frequency %q", s.Frequency)
	}
	if s.WeeklyWeekday < 0 || s.WeeklyWeekday > 6 {
		return fmt.Errorf("weekly_weekday %d out of range 0-6", s.WeeklyWeekday)
	}
	if s.MonthlyDay < 1 {
		return fmt.Errorf("monthly_day %d must be at least 1", s.MonthlyDay)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", s.Timezone, err)
	}
	return nil
}

// Location resolves the configured timezone. Validate has already checked it
// on any loaded settings, so failures only happen on hand-built values.
func (s Settings) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// Save writes the settings back to path.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal notify settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write notify settings: %w", err)
	}
	return nil
}
