package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"FASTTRADE_DATA_DIR", "FASTTRADE_SQLITE_PATH", "LOG_LEVEL",
		"ALPACA_API_KEY", "ALPACA_API_SECRET", "ALPACA_DATA_URL",
		"APCA_API_KEY_ID", "APCA_API_SECRET_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fasttrade.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	if cfg.Storage.DataDir != "data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "data")
	}
	if cfg.Storage.SQLitePath != "fasttrade.db" {
		t.Errorf("Storage.SQLitePath = %q, want %q", cfg.Storage.SQLitePath, "fasttrade.db")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
	if cfg.Fetch.RateLimitPerMin != 200 || cfg.Fetch.MaxAttempts != 3 || cfg.Fetch.PageLimit != 1000 {
		t.Errorf("Fetch = %+v, want defaults 200/3/1000", cfg.Fetch)
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
storage:
  data_dir: "/var/lib/fasttrade/data"
  sqlite_path: "/var/lib/fasttrade/runs.db"
alpaca:
  api_key: "test-key"
  api_secret: "test-secret"
  data_url: "https://data.alpaca.markets"
logging:
  level: "debug"
  format: "text"
fetch:
  rate_limit_per_min: 120
  max_attempts: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.DataDir != "/var/lib/fasttrade/data" {
		t.Errorf("Storage.DataDir = %q, want %q", cfg.Storage.DataDir, "/var/lib/fasttrade/data")
	}
	if cfg.Storage.SQLitePath != "/var/lib/fasttrade/runs.db" {
		t.Errorf("Storage.SQLitePath = %q, want %q", cfg.Storage.SQLitePath, "/var/lib/fasttrade/runs.db")
	}
	if cfg.Alpaca.APIKey != "test-key" || cfg.Alpaca.APISecret != "test-secret" {
		t.Errorf("Alpaca credentials = %q/%q, want test-key/test-secret",
			cfg.Alpaca.APIKey, cfg.Alpaca.APISecret)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want debug/text", cfg.Logging)
	}
	if cfg.Fetch.RateLimitPerMin != 120 || cfg.Fetch.MaxAttempts != 5 {
		t.Errorf("Fetch = %+v, want 120/5", cfg.Fetch)
	}
	// Omitted field keeps its default.
	if cfg.Fetch.PageLimit != 1000 {
		t.Errorf("Fetch.PageLimit = %d, want default 1000", cfg.Fetch.PageLimit)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
storage:
  data_dir: "/original/data"
alpaca:
  api_key: "yaml-key"
  api_secret: "yaml-secret"
`)

	t.Setenv("ALPACA_API_KEY", "env-key")
	t.Setenv("FASTTRADE_DATA_DIR", "/env/data")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Alpaca.APIKey != "env-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q (env override)", cfg.Alpaca.APIKey, "env-key")
	}
	// No env override for the secret, so the YAML value stays.
	if cfg.Alpaca.APISecret != "yaml-secret" {
		t.Errorf("Alpaca.APISecret = %q, want %q (from YAML)", cfg.Alpaca.APISecret, "yaml-secret")
	}
	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want %q (env override)", cfg.Storage.DataDir, "/env/data")
	}
}

func TestLoadCanonicalAlpacaEnvWins(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
alpaca:
  api_key: "yaml-key"
`)

	t.Setenv("ALPACA_API_KEY", "alias-key")
	t.Setenv("APCA_API_KEY_ID", "canonical-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Alpaca.APIKey != "canonical-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q", cfg.Alpaca.APIKey, "canonical-key")
	}
}
