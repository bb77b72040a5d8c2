package budget

import (
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	doc := []byte(`
monthly_total_cap: 20000
warn_threshold: 0.85
categories:
  Food: 5000
  Transport: 3000
  Books: 1000
`)
	cfg, err := ParseConfig(doc)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.MonthlyTotalCap == nil || *cfg.MonthlyTotalCap != 20000 {
		t.Errorf("MonthlyTotalCap = %v, want 20000", cfg.MonthlyTotalCap)
	}
	if cfg.WarnThreshold != 0.85 {
		t.Errorf("WarnThreshold = %v, want 0.85", cfg.WarnThreshold)
	}
	if len(cfg.CategoryCaps) != 3 {
		t.Fatalf("caps = %d, want 3", len(cfg.CategoryCaps))
	}
	// Document order, not alphabetical.
	if cfg.CategoryCaps[0].Category != "Food" ||
		cfg.CategoryCaps[1].Category != "Transport" ||
		cfg.CategoryCaps[2].Category != "Books" {
		t.Errorf("caps out of document order: %+v", cfg.CategoryCaps)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`categories: {Food: 100}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.MonthlyTotalCap != nil {
		t.Error("absent monthly_total_cap must stay nil")
	}
	if cfg.WarnThreshold != DefaultWarnThreshold {
		t.Errorf("WarnThreshold = %v, want default %v", cfg.WarnThreshold, DefaultWarnThreshold)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", ": not yaml ["},
		{"warn threshold above one", "warn_threshold: 1.5"},
		{"negative cap", "categories: {Food: -5}"},
		{"negative total cap", "monthly_total_cap: -100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("missing budgets file should fall back to defaults, got %v", err)
	}
	if cfg.MonthlyTotalCap != nil || len(cfg.CategoryCaps) != 0 || cfg.WarnThreshold != DefaultWarnThreshold {
		t.Errorf("defaults = %+v", cfg)
	}
}
