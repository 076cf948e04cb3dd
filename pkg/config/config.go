package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all hearsay configuration.
type Config struct {
	DBPath  string        `yaml:"db_path"`
	Log     LogConfig     `yaml:"log"`
	Pacing  PacingConfig  `yaml:"pacing"`
	Cache   CacheConfig   `yaml:"cache"`
	Budget  BudgetConfig  `yaml:"budget"`
	Scoring ScoringConfig `yaml:"scoring"`
	Search  SearchConfig  `yaml:"search"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// PacingConfig controls outbound call spacing. Warmup is the one-time delay
// before the first call of a session on an endpoint class; MinInterval is the
// steady-state floor between consecutive calls on the same class.
type PacingConfig struct {
	Warmup      time.Duration          `yaml:"warmup"`
	MinInterval time.Duration          `yaml:"min_interval"`
	Classes     map[string]ClassPacing `yaml:"classes"`
}

// ClassPacing overrides pacing for a single endpoint class.
type ClassPacing struct {
	Warmup      time.Duration `yaml:"warmup"`
	MinInterval time.Duration `yaml:"min_interval"`
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// BudgetConfig controls the spend ledger. Ceiling is in cost units (USD).
// Simulate keeps the accounting live while synthetic responses replace
// real upstream calls.
type BudgetConfig struct {
	Ceiling  float64 `yaml:"ceiling"`
	Simulate bool    `yaml:"simulate"`
}

// ScoringConfig holds the pass thresholds for the evidence scorers.
type ScoringConfig struct {
	ContentPassThreshold int     `yaml:"content_pass_threshold"`
	IdentityThreshold    float64 `yaml:"identity_threshold"`
}

// SearchConfig controls the evidence search client.
type SearchConfig struct {
	Endpoint   string        `yaml:"endpoint"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxResults int           `yaml:"max_results"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DBPath: "hearsay.db",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Pacing: PacingConfig{
			Warmup:      10 * time.Second,
			MinInterval: 5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Budget: BudgetConfig{
			Ceiling: 25.0,
		},
		Scoring: ScoringConfig{
			ContentPassThreshold: 70,
			IdentityThreshold:    0.5,
		},
		Search: SearchConfig{
			Timeout:    15 * time.Second,
			MaxResults: 20,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// ClassPacingFor returns the pacing for an endpoint class, falling back to
// the global defaults when no override is configured.
func (c *Config) ClassPacingFor(class string) ClassPacing {
	if cp, ok := c.Pacing.Classes[class]; ok {
		if cp.Warmup == 0 {
			cp.Warmup = c.Pacing.Warmup
		}
		if cp.MinInterval == 0 {
			cp.MinInterval = c.Pacing.MinInterval
		}
		return cp
	}
	return ClassPacing{Warmup: c.Pacing.Warmup, MinInterval: c.Pacing.MinInterval}
}
