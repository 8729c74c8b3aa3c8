package gdp

import (
	"io"
	"log/slog"

	"github.com/gdp-poc/gdp/internal/config"
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	dbURL            string
	dataDir          string
	seedFile         string
	filterByUser     bool
	dashboardBaseURL string
	logger           *slog.Logger
	closers          []io.Closer
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir:      config.DefaultDataDir(),
		filterByUser: config.DefaultFilterByUser,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite stores menus in the SQLite database file at path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithPostgres stores menus in the PostgreSQL database at dsn.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.dbURL = dsn
	}
}

// WithDatabaseURL sets the database URL directly (sqlite:/// or postgres://).
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithDataDir sets the data directory. It holds the default SQLite database.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithSeedFile loads the YAML seed at path when the store is empty.
func WithSeedFile(path string) Option {
	return func(c *clientConfig) {
		c.seedFile = path
	}
}

// WithFilterByUser restricts menu reads to pages granted to the caller.
// Enabled by default.
func WithFilterByUser(enabled bool) Option {
	return func(c *clientConfig) {
		c.filterByUser = enabled
	}
}

// WithDashboardBaseURL sets the base used to build dashboard embed URLs.
func WithDashboardBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dashboardBaseURL = url
	}
}

// WithConfig applies the storage and menu settings of an AppConfig.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.dataDir = cfg.DataDir()
		c.dbURL = cfg.DBURL()
		c.seedFile = cfg.SeedFile()
		c.filterByUser = cfg.FilterByUser()
		c.dashboardBaseURL = cfg.DashboardBaseURL()
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithCloser registers a resource to be closed when the Client shuts down.
func WithCloser(c io.Closer) Option {
	return func(cfg *clientConfig) {
		cfg.closers = append(cfg.closers, c)
	}
}
