package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/agentstation/locrecon/internal/server"
)

// TestLoadConfig verifies defaults when nothing is configured.
func TestLoadConfig(t *testing.T) {
	config, err := loadConfig(viper.New(), "")
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}

	defaults := server.DefaultConfig()
	if config.Port != defaults.Port {
		t.Errorf("Port = %d, want %d", config.Port, defaults.Port)
	}
	if config.PathPrefix != defaults.PathPrefix {
		t.Errorf("PathPrefix = %s, want %s", config.PathPrefix, defaults.PathPrefix)
	}
	if config.LogFormat != "auto" {
		t.Errorf("LogFormat = %s, want auto", config.LogFormat)
	}
	if config.LogLevel != "" {
		t.Errorf("LogLevel = %q, want empty so -v/-q apply", config.LogLevel)
	}
}

// TestConfig_EnvironmentVariables verifies LOCRECON_ environment variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("LOCRECON_SERVER_PORT", "7001")
	t.Setenv("LOCRECON_SERVER_CACHE_TTL", "1h")
	t.Setenv("LOCRECON_AUTHORITY_URL", "https://id.example.org")
	t.Setenv("LOCRECON_QUERY_DEFAULT_LIMIT", "7")
	t.Setenv("LOCRECON_VERBOSE", "true")
	t.Setenv("LOCRECON_FORMAT", "json")

	config, err := loadConfig(viper.New(), "")
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}

	if config.Port != 7001 {
		t.Errorf("Port = %d, want 7001", config.Port)
	}
	if config.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", config.CacheTTL)
	}
	if config.AuthorityURL != "https://id.example.org" {
		t.Errorf("AuthorityURL = %s", config.AuthorityURL)
	}
	if config.DefaultLimit != 7 {
		t.Errorf("DefaultLimit = %d, want 7", config.DefaultLimit)
	}
	if !config.Verbose {
		t.Error("LOCRECON_VERBOSE not loaded")
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
}

// TestConfig_File verifies an explicit YAML config file.
func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locrecon.yaml")
	content := `
server:
  host: 0.0.0.0
  prefix: /reconcile/lc
  rate_limit: 0
authority:
  scrape_markup: title
  timeout: 3s
query:
  max_concurrent: 2
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile() failed: %v", err)
	}

	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
	if config.Host != "0.0.0.0" || config.PathPrefix != "/reconcile/lc" {
		t.Errorf("server = %s %s", config.Host, config.PathPrefix)
	}
	if config.RateLimit != 0 {
		t.Errorf("RateLimit = %d, want 0", config.RateLimit)
	}
	if config.ScrapeMarkup != "title" || config.HTTPTimeout != 3*time.Second {
		t.Errorf("authority = %s %v", config.ScrapeMarkup, config.HTTPTimeout)
	}
	if config.MaxConcurrentQueries != 2 {
		t.Errorf("MaxConcurrentQueries = %d, want 2", config.MaxConcurrentQueries)
	}
	// untouched keys keep their defaults
	if config.Port != server.DefaultConfig().Port {
		t.Errorf("Port = %d, want default", config.Port)
	}
}

// TestConfig_MissingExplicitFile verifies an explicit file must exist.
func TestConfig_MissingExplicitFile(t *testing.T) {
	if _, err := loadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

// TestConfig_UpdateFromFlags verifies flag precedence.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "yaml" || config.LogLevel != "warn" {
		t.Error("empty flags should keep loaded values")
	}

	config.UpdateFromFlags(false, false, false, "json", "debug")
	if config.Format != "json" || config.LogLevel != "debug" {
		t.Errorf("Format/LogLevel = %s/%s, want json/debug", config.Format, config.LogLevel)
	}
}

// TestConfig_ServerConfig verifies the conversion carries every field.
func TestConfig_ServerConfig(t *testing.T) {
	config, err := loadConfig(viper.New(), "")
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.ServerConfig("v9")
	if cfg.Version != "v9" {
		t.Errorf("Version = %s, want v9", cfg.Version)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default server config invalid: %v", err)
	}

	want := server.DefaultConfig()
	want.Version = "v9"
	if cfg.Addr() != want.Addr() || cfg.CacheTTL != want.CacheTTL || cfg.UserAgent != want.UserAgent {
		t.Errorf("ServerConfig() = %+v, want %+v", cfg, want)
	}
}
