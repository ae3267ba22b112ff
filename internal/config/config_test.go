package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if cfg.FetchTimeout != 15*time.Second {
		t.Errorf("fetch timeout = %v", cfg.FetchTimeout)
	}
	if cfg.Latitude != 47.8333 || cfg.Longitude != 13.1667 {
		t.Errorf("default coordinates = %v, %v", cfg.Latitude, cfg.Longitude)
	}
	if cfg.PrimaryProxyBase == "" || cfg.BackupProxyBase == "" {
		t.Error("proxy defaults missing")
	}
	if cfg.CoffeeSyncEnabled {
		t.Error("coffee sync should default off")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("HEIMDECK_HTTP_ADDR", ":9191")
	t.Setenv("HEIMDECK_LOG_LEVEL", "DEBUG")
	t.Setenv("HEIMDECK_FETCH_TIMEOUT", "3s")
	t.Setenv("HEIMDECK_LATITUDE", "48.2082")
	t.Setenv("HEIMDECK_FIXTURES_API_KEY", "abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPAddr != ":9191" {
		t.Errorf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level not lowercased: %q", cfg.LogLevel)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("fetch timeout = %v", cfg.FetchTimeout)
	}
	if cfg.Latitude != 48.2082 {
		t.Errorf("latitude = %v", cfg.Latitude)
	}
	if cfg.FixturesAPIKey != "abc" {
		t.Errorf("fixtures key = %q", cfg.FixturesAPIKey)
	}
}

func TestCoffeeSyncRequiresCredentials(t *testing.T) {
	t.Setenv("HEIMDECK_COFFEE_SYNC_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Fatal("sync without credentials accepted")
	}

	t.Setenv("HEIMDECK_COFFEE_BIN_ID", "bin")
	if _, err := Load(); err == nil {
		t.Fatal("sync without master key accepted")
	}

	t.Setenv("HEIMDECK_COFFEE_MASTER_KEY", "key")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.CoffeeSyncEnabled || cfg.CoffeeBinID != "bin" {
		t.Errorf("cfg = %+v", cfg)
	}
}
