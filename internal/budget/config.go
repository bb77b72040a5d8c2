// Package budget aggregates current-month spend and evaluates it against
// configured caps.
package budget

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultWarnThreshold bounds the NEAR tier when the config omits one.
const DefaultWarnThreshold = 0.9

// CategoryCap is one configured per-category ceiling. The slice ordering in
// Config mirrors the document order of the budgets file so alert rows come
// out in a reproducible order.
type CategoryCap struct {
	Category string
	Cap      float64
}

// Config holds the monthly caps. MonthlyTotalCap is nil when no total cap is
// configured.
type Config struct {
	MonthlyTotalCap *float64
	WarnThreshold   float64
	CategoryCaps    []CategoryCap
}

// DefaultConfig is what a missing budgets file means: no caps, default
// warn threshold.
func DefaultConfig() Config {
	return Config{WarnThreshold: DefaultWarnThreshold}
}

// LoadConfig reads the budgets document. A missing file is a normal state
// and yields defaults; a malformed file is an error for the caller to
// handle (usually by falling back to defaults and logging).
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("read budgets %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses `{monthly_total_cap, warn_threshold, categories: {...}}`.
// Category order is preserved from the document.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	var head struct {
		MonthlyTotalCap *float64 `yaml:"monthly_total_cap"`
		WarnThreshold   *float64 `yaml:"warn_threshold"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return DefaultConfig(), fmt.Errorf("parse budgets: %w", err)
	}
	cfg.MonthlyTotalCap = head.MonthlyTotalCap
	if head.WarnThreshold != nil {
		cfg.WarnThreshold = *head.WarnThreshold
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return DefaultConfig(), fmt.Errorf("parse budgets: %w", err)
	}
	if len(doc.Content) == 0 {
		return cfg, nil
	}
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "categories" {
			continue
		}
		catNode := root.Content[i+1]
		if catNode.Kind != yaml.MappingNode {
			return DefaultConfig(), fmt.Errorf("parse budgets: 'categories' must be a mapping")
		}
		for j := 0; j+1 < len(catNode.Content); j += 2 {
			var capValue float64
			if err := catNode.Content[j+1].Decode(&capValue); err != nil {
				return DefaultConfig(), fmt.Errorf("parse budgets cap for %q: %w", catNode.Content[j].Value, err)
			}
			cfg.CategoryCaps = append(cfg.CategoryCaps, CategoryCap{
				Category: catNode.Content[j].Value,
				Cap:      capValue,
			})
		}
		break
	}

	if err := cfg.validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.WarnThreshold <= 0 || c.WarnThreshold > 1 {
		return fmt.Errorf("warn_threshold %v out of range (0,1]", c.WarnThreshold)
	}
	if c.MonthlyTotalCap != nil && *c.MonthlyTotalCap < 0 {
		return fmt.Errorf("monthly_total_cap %v must be non-negative", *c.MonthlyTotalCap)
	}
	for _, cc := range c.CategoryCaps {
		if cc.Cap < 0 {
			return fmt.Errorf("cap for %q must be non-negative, got %v", cc.Category, cc.Cap)
		}
	}
	return nil
}
