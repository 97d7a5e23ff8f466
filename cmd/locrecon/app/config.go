package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/locrecon/internal/server"
	"github.com/agentstation/locrecon/pkg/constants"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Logging configuration
	LogFormat string
	LogOutput string

	// Server configuration
	Host        string
	Port        int
	PathPrefix  string
	CORSEnabled bool
	CORSOrigins []string
	RateLimit   int
	CacheTTL    time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Authority service configuration
	AuthorityURL string
	HTTPTimeout  time.Duration
	UserAgent    string
	ScrapeMarkup string

	// Query handling
	DefaultLimit         int
	MaxConcurrentQueries int

	MetricsEnabled bool
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (LOCRECON_ prefix)
// 3. .env files
// 4. Config file (.locrecon.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), os.Getenv("LOCRECON_CONFIG"))
}

// loadConfigFile reloads configuration from an explicit file.
func loadConfigFile(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	// .env files are loaded before env binding
	loadEnvFiles()

	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one must exist
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || configFile != "" {
			return nil, err
		}
	}

	return &Config{
		Verbose:  v.GetBool("verbose"),
		Quiet:    v.GetBool("quiet"),
		NoColor:  v.GetBool("no_color"),
		Format:   v.GetString("format"),
		LogLevel: v.GetString("log_level"),

		ConfigFile: v.ConfigFileUsed(),

		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),

		Host:        v.GetString("server.host"),
		Port:        v.GetInt("server.port"),
		PathPrefix:  v.GetString("server.prefix"),
		CORSEnabled: v.GetBool("server.cors"),
		CORSOrigins: v.GetStringSlice("server.cors_origins"),
		RateLimit:   v.GetInt("server.rate_limit"),
		CacheTTL:    v.GetDuration("server.cache_ttl"),

		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		IdleTimeout:  v.GetDuration("server.idle_timeout"),

		AuthorityURL: v.GetString("authority.url"),
		HTTPTimeout:  v.GetDuration("authority.timeout"),
		UserAgent:    v.GetString("authority.user_agent"),
		ScrapeMarkup: v.GetString("authority.scrape_markup"),

		DefaultLimit:         v.GetInt("query.default_limit"),
		MaxConcurrentQueries: v.GetInt("query.max_concurrent"),

		MetricsEnabled: v.GetBool("server.metrics"),
	}, nil
}

// setDefaults registers every key so AutomaticEnv can find it.
func setDefaults(v *viper.Viper) {
	d := server.DefaultConfig()

	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("no_color", false)
	v.SetDefault("format", "")
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	v.SetDefault("server.host", d.Host)
	v.SetDefault("server.port", d.Port)
	v.SetDefault("server.prefix", d.PathPrefix)
	v.SetDefault("server.cors", d.CORSEnabled)
	v.SetDefault("server.cors_origins", d.CORSOrigins)
	v.SetDefault("server.rate_limit", d.RateLimit)
	v.SetDefault("server.cache_ttl", d.CacheTTL)
	v.SetDefault("server.read_timeout", d.ReadTimeout)
	v.SetDefault("server.write_timeout", d.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.IdleTimeout)
	v.SetDefault("server.metrics", d.MetricsEnabled)

	v.SetDefault("authority.url", d.AuthorityURL)
	v.SetDefault("authority.timeout", d.HTTPTimeout)
	v.SetDefault("authority.user_agent", d.UserAgent)
	v.SetDefault("authority.scrape_markup", d.ScrapeMarkup)

	v.SetDefault("query.default_limit", d.DefaultLimit)
	v.SetDefault("query.max_concurrent", d.MaxConcurrentQueries)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// ServerConfig converts the loaded settings into a server configuration.
func (c *Config) ServerConfig(version string) server.Config {
	return server.Config{
		Host:                 c.Host,
		Port:                 c.Port,
		PathPrefix:           c.PathPrefix,
		CORSEnabled:          c.CORSEnabled,
		CORSOrigins:          c.CORSOrigins,
		RateLimit:            c.RateLimit,
		CacheTTL:             c.CacheTTL,
		ReadTimeout:          c.ReadTimeout,
		WriteTimeout:         c.WriteTimeout,
		IdleTimeout:          c.IdleTimeout,
		AuthorityURL:         c.AuthorityURL,
		HTTPTimeout:          c.HTTPTimeout,
		UserAgent:            c.UserAgent,
		ScrapeMarkup:         c.ScrapeMarkup,
		DefaultLimit:         c.DefaultLimit,
		MaxConcurrentQueries: c.MaxConcurrentQueries,
		MetricsEnabled:       c.MetricsEnabled,
		Version:              version,
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win; godotenv never overrides
// variables that are already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
