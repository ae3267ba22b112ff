// Package config loads application configuration from the environment (with
// optional .env support) and validates it eagerly at startup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting the application reads.
type Config struct {
	HTTPAddr string
	LogLevel string

	// Proxy relays tried by the feed transport resolver, in order. The
	// primary appends the raw feed URL, the backup appends it URL-encoded.
	PrimaryProxyBase string
	BackupProxyBase  string
	FetchTimeout     time.Duration

	// Optional YAML file overriding the built-in feed source catalog.
	SourcesFile string

	// Optional YAML/JSON file declaring notification sinks. Empty disables
	// event publishing entirely.
	NotifiersFile string

	// Path of the bbolt snapshot database. Empty disables the last-good
	// cache and total transport failure goes straight to synthetic data.
	SnapshotPath string

	// Default dashboard location (Obertrum am See unless overridden).
	Latitude  float64
	Longitude float64

	// Coffee log cloud sync. BinID and MasterKey are required when enabled.
	CoffeeSyncEnabled bool
	CoffeeBinID       string
	CoffeeMasterKey   string

	// Rugby fixtures API. Empty key means the seasonal generator is used.
	FixturesAPIBase string
	FixturesAPIKey  string
}

// Load reads configuration, layering .env under real environment variables.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be fully populated already.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HEIMDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("proxy_primary", "https://cors-anywhere.herokuapp.com/")
	v.SetDefault("proxy_backup", "https://api.codetabs.com/v1/proxy/?quest=")
	v.SetDefault("fetch_timeout", 15*time.Second)
	v.SetDefault("latitude", 47.8333)
	v.SetDefault("longitude", 13.1667)
	v.SetDefault("snapshot_path", "./data/snapshot.db")

	cfg := &Config{
		HTTPAddr:          v.GetString("http_addr"),
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		PrimaryProxyBase:  v.GetString("proxy_primary"),
		BackupProxyBase:   v.GetString("proxy_backup"),
		FetchTimeout:      v.GetDuration("fetch_timeout"),
		SourcesFile:       v.GetString("sources_file"),
		NotifiersFile:     v.GetString("notifiers_file"),
		SnapshotPath:      v.GetString("snapshot_path"),
		Latitude:          v.GetFloat64("latitude"),
		Longitude:         v.GetFloat64("longitude"),
		CoffeeSyncEnabled: v.GetBool("coffee_sync_enabled"),
		CoffeeBinID:       v.GetString("coffee_bin_id"),
		CoffeeMasterKey:   v.GetString("coffee_master_key"),
		FixturesAPIBase:   v.GetString("fixtures_api_base"),
		FixturesAPIKey:    v.GetString("fixtures_api_key"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("HEIMDECK_HTTP_ADDR must not be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("HEIMDECK_FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	if c.CoffeeSyncEnabled {
		if strings.TrimSpace(c.CoffeeBinID) == "" {
			return fmt.Errorf("coffee sync enabled but HEIMDECK_COFFEE_BIN_ID is not set")
		}
		if strings.TrimSpace(c.CoffeeMasterKey) == "" {
			return fmt.Errorf("coffee sync enabled but HEIMDECK_COFFEE_MASTER_KEY is not set")
		}
	}
	return nil
}
