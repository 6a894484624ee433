package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/config"
)

type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Usage     UsageConfig     `yaml:"usage"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
}

type ServiceConfig struct {
	Name string `yaml:"name"`
}

type DatabaseConfig struct {
	// Path to the SQLite ledger database
	Path string `yaml:"path"`
}

type SchedulerConfig struct {
	Enabled bool `yaml:"enabled"`

	// Cron spec for evaluation runs, interpreted in Timezone
	Cron string `yaml:"cron"`

	// IANA timezone name, or "Local"
	Timezone string `yaml:"timezone"`

	// How many completed periods per goal one run may settle
	LookbackPeriods int `yaml:"lookback_periods"`
}

type UsageConfig struct {
	// Usage source kind; "knowledge" reads the macOS Knowledge database
	Source string `yaml:"source"`

	// Path to knowledgeC.db; empty uses the default library location
	KnowledgePath string `yaml:"knowledge_path"`
}

type SnapshotConfig struct {
	// Default output path for JSON snapshot exports
	Path string `yaml:"path"`
}

// Location resolves the scheduler timezone
func (c *SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

func defaults() Config {
	return Config{
		Service:  ServiceConfig{Name: "stake-tracker"},
		Database: DatabaseConfig{Path: "stake.db"},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			Cron:            "0 21 * * *",
			Timezone:        "Local",
			LookbackPeriods: 7,
		},
		Usage:    UsageConfig{Source: "knowledge"},
		Snapshot: SnapshotConfig{Path: "stake-snapshot.json"},
	}
}

// Load loads configuration from the YAML file with environment variable
// overrides. A missing config file is not an error: this is a personal
// tool and the defaults are usable as-is.
func Load() (*Config, error) {
	configPath := getEnv("CONFIG_PATH", "./config/base.yaml")

	opts := []config.YAMLOption{
		config.Static(defaults()),
		config.Expand(os.LookupEnv),
	}

	if _, err := os.Stat(configPath); err == nil {
		opts = append(opts, config.File(configPath))
	}

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create config provider: %w", err)
	}

	var cfg Config
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("failed to populate config: %w", err)
	}

	cfg.overrideFromEnv()

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables if present
func (c *Config) overrideFromEnv() {
	if val := os.Getenv("STAKE_DB_PATH"); val != "" {
		c.Database.Path = val
	}
	if val := os.Getenv("STAKE_SCHEDULER_ENABLED"); val != "" {
		c.Scheduler.Enabled = val == "true" || val == "1"
	}
	if val := os.Getenv("STAKE_SCHEDULER_CRON"); val != "" {
		c.Scheduler.Cron = val
	}
	if val := os.Getenv("STAKE_TIMEZONE"); val != "" {
		c.Scheduler.Timezone = val
	}
	if val := os.Getenv("STAKE_LOOKBACK_PERIODS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Scheduler.LookbackPeriods)
	}
	if val := os.Getenv("STAKE_USAGE_SOURCE"); val != "" {
		c.Usage.Source = val
	}
	if val := os.Getenv("STAKE_KNOWLEDGE_PATH"); val != "" {
		c.Usage.KnowledgePath = val
	}
	if val := os.Getenv("STAKE_SNAPSHOT_PATH"); val != "" {
		c.Snapshot.Path = val
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
