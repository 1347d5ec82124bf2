// Package config manages the global (~/.config/chronomem/config.toml)
// configuration for chronomem.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all chronomem settings. It is loaded once at startup and
// passed by value into component constructors; nothing mutates it afterwards.
type Config struct {
	DataDir  string         `toml:"data_dir"`
	Provider string         `toml:"provider"`
	Keys     KeysConfig     `toml:"keys"`
	Model    ModelConfig    `toml:"model"`
	Cleanup  CleanupConfig  `toml:"cleanup"`
	Context  ContextConfig  `toml:"context"`
	Schedule ScheduleConfig `toml:"schedule"`
}

type KeysConfig struct {
	Anthropic string `toml:"anthropic"`
	OpenAI    string `toml:"openai"`
}

// ModelConfig selects the completion model and its call parameters.
type ModelConfig struct {
	Name           string `toml:"name"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// CleanupConfig holds the age thresholds and size ceilings that drive the
// daily cleanup batch. Ages are in days.
type CleanupConfig struct {
	SoftTrimAfterDays    int `toml:"soft_trim_after_days"`
	WeeklyAfterDays      int `toml:"weekly_after_days"`
	MonthlyAfterDays     int `toml:"monthly_after_days"`
	CompressAfterDays    int `toml:"compress_after_days"`
	ProtectedRecentDays  int `toml:"protected_recent_days"`
	MaxTotalSizeMB       int `toml:"max_total_size_mb"`
	MaxDailyFolderSizeMB int `toml:"max_daily_folder_size_mb"`
	TrimmedSizeBytes     int `toml:"trimmed_size_bytes"`
}

// ContextConfig bounds the assembled context for a single query.
type ContextConfig struct {
	MaxMemoryTokens int `toml:"max_memory_tokens"`
	CharsPerToken   int `toml:"chars_per_token"`
	RecentDays      int `toml:"recent_days"`
	MaxRecentFiles  int `toml:"max_recent_files"`
}

// ScheduleConfig controls the serve daemon.
type ScheduleConfig struct {
	// CleanupCron is a standard 5-field cron expression for the daily batch.
	CleanupCron string `toml:"cleanup_cron"`
}

// Default returns the built-in defaults. The cleanup thresholds mirror the
// tiering design: trim at T+1, weekly at T+7, monthly at T+30, compress at
// T+90, with the last 7 days protected.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:  filepath.Join(home, ".chronomem", "data"),
		Provider: "anthropic",
		Model: ModelConfig{
			Name:           "claude-sonnet-4-6",
			TimeoutSeconds: 30,
		},
		Cleanup: CleanupConfig{
			SoftTrimAfterDays:    1,
			WeeklyAfterDays:      7,
			MonthlyAfterDays:     30,
			CompressAfterDays:    90,
			ProtectedRecentDays:  7,
			MaxTotalSizeMB:       100,
			MaxDailyFolderSizeMB: 20,
			TrimmedSizeBytes:     2048,
		},
		Context: ContextConfig{
			MaxMemoryTokens: 64000,
			CharsPerToken:   4,
			RecentDays:      3,
			MaxRecentFiles:  3,
		},
		Schedule: ScheduleConfig{
			CleanupCron: "0 4 * * *",
		},
	}
}

// Path returns the location of the global config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "chronomem", "config.toml"), nil
}

// Load reads the global config, applying defaults for missing values.
// A missing file is not an error; defaults are returned.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load: %w", err)
	}

	// Env vars override config-file API keys.
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Keys.Anthropic = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}

	return cfg, nil
}

// Save writes the global config to disk, creating parent directories.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
