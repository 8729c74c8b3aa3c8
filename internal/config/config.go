// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 8080
	DefaultLogLevel         = "INFO"
	DefaultDBFile           = "gdp.db"
	DefaultFilterByUser     = true
	DefaultRemoteTimeout    = 30 * time.Second
	DefaultRemoteMaxRetries = 3
	DefaultRequestTimeout   = 60 * time.Second
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// RemoteConfig configures the connection to a menu server.
type RemoteConfig struct {
	serverURL  string
	user       string
	timeout    time.Duration
	maxRetries int
}

// NewRemoteConfig creates a new RemoteConfig with defaults.
func NewRemoteConfig() RemoteConfig {
	return RemoteConfig{
		timeout:    DefaultRemoteTimeout,
		maxRetries: DefaultRemoteMaxRetries,
	}
}

// ServerURL returns the remote server URL.
func (r RemoteConfig) ServerURL() string { return r.serverURL }

// User returns the identity sent as X-Forwarded-Email.
func (r RemoteConfig) User() string { return r.user }

// Timeout returns the request timeout.
func (r RemoteConfig) Timeout() time.Duration { return r.timeout }

// MaxRetries returns the maximum retry count.
func (r RemoteConfig) MaxRetries() int { return r.maxRetries }

// IsConfigured returns true if a server URL is set.
func (r RemoteConfig) IsConfigured() bool {
	return r.serverURL != ""
}

// RemoteConfigOption is a functional option for RemoteConfig.
type RemoteConfigOption func(*RemoteConfig)

// WithServerURL sets the server URL.
func WithServerURL(url string) RemoteConfigOption {
	return func(r *RemoteConfig) { r.serverURL = strings.TrimRight(url, "/") }
}

// WithRemoteUser sets the forwarded user identity.
func WithRemoteUser(user string) RemoteConfigOption {
	return func(r *RemoteConfig) { r.user = user }
}

// WithRemoteTimeout sets the timeout.
func WithRemoteTimeout(d time.Duration) RemoteConfigOption {
	return func(r *RemoteConfig) { r.timeout = d }
}

// WithRemoteMaxRetries sets the max retries.
func WithRemoteMaxRetries(n int) RemoteConfigOption {
	return func(r *RemoteConfig) { r.maxRetries = n }
}

// NewRemoteConfigWithOptions creates a RemoteConfig with options.
func NewRemoteConfigWithOptions(opts ...RemoteConfigOption) RemoteConfig {
	r := NewRemoteConfig()
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host             string
	port             int
	dataDir          string
	dbURL            string
	logLevel         string
	logFormat        LogFormat
	logFile          string
	staticDir        string
	seedFile         string
	filterByUser     bool
	dashboardBaseURL string
	corsOrigins      []string
	remote           RemoteConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gdp"
	}
	return filepath.Join(home, ".gdp")
}

// DefaultDBURL returns the sqlite database URL inside dataDir.
func DefaultDBURL(dataDir string) string {
	return "sqlite:///" + filepath.Join(dataDir, DefaultDBFile)
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:         DefaultHost,
		port:         DefaultPort,
		dataDir:      dataDir,
		dbURL:        DefaultDBURL(dataDir),
		logLevel:     DefaultLogLevel,
		logFormat:    LogFormatPretty,
		filterByUser: DefaultFilterByUser,
		corsOrigins:  []string{},
		remote:       NewRemoteConfig(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// LogFile returns the path of the rotated JSON log file, or "" when file
// logging is off.
func (c AppConfig) LogFile() string { return c.logFile }

// StaticDir returns the directory holding the built front-end, or "".
func (c AppConfig) StaticDir() string { return c.staticDir }

// SeedFile returns the YAML seed file loaded into an empty store, or "".
func (c AppConfig) SeedFile() string { return c.seedFile }

// FilterByUser reports whether the structure is restricted to granted pages.
func (c AppConfig) FilterByUser() bool { return c.filterByUser }

// DashboardBaseURL returns the base used to build dashboard embed URLs.
func (c AppConfig) DashboardBaseURL() string { return c.dashboardBaseURL }

// CORSOrigins returns the allowed CORS origins. Empty allows any origin.
func (c AppConfig) CORSOrigins() []string {
	origins := make([]string, len(c.corsOrigins))
	copy(origins, c.corsOrigins)
	return origins
}

// Remote returns the remote config.
func (c AppConfig) Remote() RemoteConfig { return c.remote }

// IsRemote returns true if a remote server is configured.
func (c AppConfig) IsRemote() bool {
	return c.remote.IsConfigured()
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		// Update default DB URL when data dir changes
		if c.dbURL == "" || c.dbURL == DefaultDBURL(c.dataDir) {
			c.dbURL = DefaultDBURL(dir)
		}
		c.dataDir = dir
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithLogFile sets the rotated log file path.
func WithLogFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.logFile = path }
}

// WithStaticDir sets the front-end directory.
func WithStaticDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.staticDir = dir }
}

// WithSeedFile sets the seed file.
func WithSeedFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.seedFile = path }
}

// WithFilterByUser sets whether structure requests are filtered by grants.
func WithFilterByUser(enabled bool) AppConfigOption {
	return func(c *AppConfig) { c.filterByUser = enabled }
}

// WithDashboardBaseURL sets the dashboard embed base URL.
func WithDashboardBaseURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dashboardBaseURL = strings.TrimRight(url, "/") }
}

// WithCORSOrigins sets the allowed CORS origins.
func WithCORSOrigins(origins []string) AppConfigOption {
	return func(c *AppConfig) {
		c.corsOrigins = make([]string, len(origins))
		copy(c.corsOrigins, origins)
	}
}

// WithRemoteConfig sets the remote config.
func WithRemoteConfig(r RemoteConfig) AppConfigOption {
	return func(c *AppConfig) { c.remote = r }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Database credentials are masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("data_dir", c.dataDir),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("log_level", c.logLevel),
		slog.String("static_dir", orNone(c.staticDir)),
		slog.String("seed_file", orNone(c.seedFile)),
		slog.Bool("filter_by_user", c.filterByUser),
		slog.Int("cors_origins_count", len(c.corsOrigins)),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

func orNone(s string) string {
	if s == "" {
		return "(not configured)"
	}
	return s
}

// ParseList parses a comma-separated list, dropping blank entries.
func ParseList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
