// Package config loads the application configuration from a YAML file with
// environment variable overrides for credentials and paths.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the fasttrade tool.
type Config struct {
	Storage Storage     `yaml:"storage"`
	Alpaca  Alpaca      `yaml:"alpaca"`
	Logging Logging     `yaml:"logging"`
	Fetch   FetchConfig `yaml:"fetch"`
}

// Storage holds paths for the candle archive and the run database.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Alpaca holds credentials and endpoint for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FetchConfig holds parameters for candle downloading.
type FetchConfig struct {
	RateLimitPerMin int `yaml:"rate_limit_per_min"`
	MaxAttempts     int `yaml:"max_attempts"`
	PageLimit       int `yaml:"page_limit"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	cfg := &Config{
		Storage: Storage{
			DataDir:    "data",
			SQLitePath: "fasttrade.db",
		},
		Logging: Logging{Level: "info", Format: "json"},
		Fetch: FetchConfig{
			RateLimitPerMin: 200,
			MaxAttempts:     3,
			PageLimit:       1000,
		},
	}
	applyEnvOverrides(cfg)
	return cfg
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides. Omitted
// fields keep the Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FASTTRADE_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("FASTTRADE_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	// Canonical Alpaca env var names used by the SDK take priority.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}
