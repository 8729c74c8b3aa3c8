package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., REMOTE_SERVER_URL).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.gdp
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/gdp.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// LogFile is an optional path for a rotated JSON log.
	// Env: LOG_FILE
	LogFile string `envconfig:"LOG_FILE"`

	// StaticDir holds the built front-end served for non-API paths.
	// Env: STATIC_DIR
	StaticDir string `envconfig:"STATIC_DIR"`

	// SeedFile is a YAML file loaded when the store is empty.
	// Env: SEED_FILE
	SeedFile string `envconfig:"SEED_FILE"`

	// FilterByUser restricts the structure to pages granted to the caller.
	// Env: FILTER_BY_USER (default: true)
	FilterByUser bool `envconfig:"FILTER_BY_USER" default:"true"`

	// DashboardBaseURL is the base of dashboard embed URLs.
	// Env: DASHBOARD_BASE_URL
	DashboardBaseURL string `envconfig:"DASHBOARD_BASE_URL"`

	// CORSOrigins is a comma-separated list of allowed origins.
	// Env: CORS_ORIGINS
	CORSOrigins string `envconfig:"CORS_ORIGINS"`

	// Remote configures the menu server used by the console commands.
	Remote RemoteEnv `envconfig:"REMOTE"`
}

// RemoteEnv holds environment configuration for the remote menu server.
type RemoteEnv struct {
	// ServerURL is the remote server URL.
	// Env: REMOTE_SERVER_URL
	ServerURL string `envconfig:"SERVER_URL"`

	// User is sent as X-Forwarded-Email.
	// Env: REMOTE_USER
	User string `envconfig:"USER"`

	// Timeout is the request timeout in seconds.
	// Env: REMOTE_TIMEOUT (default: 30)
	Timeout float64 `envconfig:"TIMEOUT" default:"30"`

	// MaxRetries is the maximum retry attempts.
	// Env: REMOTE_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "GDP" would require GDP_DATA_DIR instead of DATA_DIR.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Normalize trims surrounding whitespace from free-form string values.
func (e EnvConfig) Normalize() EnvConfig {
	e.Host = strings.TrimSpace(e.Host)
	e.DataDir = strings.TrimSpace(e.DataDir)
	e.DBURL = strings.TrimSpace(e.DBURL)
	e.LogLevel = strings.ToUpper(strings.TrimSpace(e.LogLevel))
	e.LogFormat = strings.TrimSpace(e.LogFormat)
	e.StaticDir = strings.TrimSpace(e.StaticDir)
	e.SeedFile = strings.TrimSpace(e.SeedFile)
	e.Remote.ServerURL = strings.TrimSpace(e.Remote.ServerURL)
	e.Remote.User = strings.TrimSpace(e.Remote.User)
	return e
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	// Apply overrides from environment
	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.LogFile != "" {
		cfg = applyOption(cfg, WithLogFile(e.LogFile))
	}
	if e.StaticDir != "" {
		cfg = applyOption(cfg, WithStaticDir(e.StaticDir))
	}
	if e.SeedFile != "" {
		cfg = applyOption(cfg, WithSeedFile(e.SeedFile))
	}
	cfg = applyOption(cfg, WithFilterByUser(e.FilterByUser))
	if e.DashboardBaseURL != "" {
		cfg = applyOption(cfg, WithDashboardBaseURL(e.DashboardBaseURL))
	}
	if e.CORSOrigins != "" {
		cfg = applyOption(cfg, WithCORSOrigins(ParseList(e.CORSOrigins)))
	}

	cfg = applyOption(cfg, WithRemoteConfig(e.Remote.ToRemoteConfig()))

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// IsConfigured returns true if remote server URL is configured.
func (r RemoteEnv) IsConfigured() bool {
	return r.ServerURL != ""
}

// ToRemoteConfig converts RemoteEnv to RemoteConfig.
func (r RemoteEnv) ToRemoteConfig() RemoteConfig {
	opts := []RemoteConfigOption{
		WithRemoteTimeout(time.Duration(r.Timeout * float64(time.Second))),
		WithRemoteMaxRetries(r.MaxRetries),
	}

	if r.ServerURL != "" {
		opts = append(opts, WithServerURL(r.ServerURL))
	}
	if r.User != "" {
		opts = append(opts, WithRemoteUser(r.User))
	}

	return NewRemoteConfigWithOptions(opts...)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
