package config

import (
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefaultThresholds(t *testing.T) {
	cfg := Default()

	if cfg.Provider != "anthropic" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.Cleanup.SoftTrimAfterDays != 1 ||
		cfg.Cleanup.WeeklyAfterDays != 7 ||
		cfg.Cleanup.MonthlyAfterDays != 30 ||
		cfg.Cleanup.CompressAfterDays != 90 {
		t.Errorf("tier thresholds = %+v", cfg.Cleanup)
	}
	if cfg.Cleanup.ProtectedRecentDays != 7 {
		t.Errorf("ProtectedRecentDays = %d, want 7", cfg.Cleanup.ProtectedRecentDays)
	}
	if cfg.Cleanup.MaxTotalSizeMB != 100 || cfg.Cleanup.MaxDailyFolderSizeMB != 20 {
		t.Errorf("size ceilings = %d/%d, want 100/20", cfg.Cleanup.MaxTotalSizeMB, cfg.Cleanup.MaxDailyFolderSizeMB)
	}
	if cfg.Cleanup.TrimmedSizeBytes != 2048 {
		t.Errorf("TrimmedSizeBytes = %d, want 2048", cfg.Cleanup.TrimmedSizeBytes)
	}
	if cfg.Context.MaxMemoryTokens != 64000 || cfg.Context.CharsPerToken != 4 {
		t.Errorf("context budget = %+v", cfg.Context)
	}
	if cfg.Schedule.CleanupCron != "0 4 * * *" {
		t.Errorf("CleanupCron = %q", cfg.Schedule.CleanupCron)
	}
}

func TestDecodePartialOverridesDefaults(t *testing.T) {
	cfg := Default()
	doc := `
provider = "openai"

[cleanup]
weekly_after_days = 14

[context]
max_memory_tokens = 32000
`
	if _, err := toml.Decode(doc, &cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.Cleanup.WeeklyAfterDays != 14 {
		t.Errorf("WeeklyAfterDays = %d, want 14", cfg.Cleanup.WeeklyAfterDays)
	}
	if cfg.Context.MaxMemoryTokens != 32000 {
		t.Errorf("MaxMemoryTokens = %d, want 32000", cfg.Context.MaxMemoryTokens)
	}
	// Untouched sections keep their defaults.
	if cfg.Cleanup.MonthlyAfterDays != 30 {
		t.Errorf("MonthlyAfterDays = %d, want 30", cfg.Cleanup.MonthlyAfterDays)
	}
	if cfg.Context.CharsPerToken != 4 {
		t.Errorf("CharsPerToken = %d, want 4", cfg.Context.CharsPerToken)
	}
}
