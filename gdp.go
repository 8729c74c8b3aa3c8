// Package gdp provides the menu service behind the GDP portal.
//
// A Client owns the menu database and exposes the menu service:
//
//	client, err := gdp.New(
//	    gdp.WithSQLite(".gdp/gdp.db"),
//	    gdp.WithSeedFile("menu.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	tree, err := client.Menus.Structure(ctx, "alice@example.com")
package gdp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/gdp-poc/gdp/application/service"
	"github.com/gdp-poc/gdp/infrastructure/persistence"
	"github.com/gdp-poc/gdp/internal/config"
	"github.com/gdp-poc/gdp/internal/database"
)

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = errors.New("gdp: client is closed")

// Client is the main entry point for the gdp library.
type Client struct {
	// Menus serves menu structure reads, batch updates and page display.
	Menus *service.Menu
	// Grants records which pages each user may see.
	Grants persistence.GrantStore

	db      database.Database
	closers []io.Closer
	logger  *slog.Logger
	closed  atomic.Bool
}

// New creates a new Client with the given options. Without a database
// option the SQLite database in the data directory is used.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	dbURL := cfg.dbURL
	if dbURL == "" {
		dataDir, err := config.PrepareDataDir(cfg.dataDir)
		if err != nil {
			return nil, err
		}
		dbURL = config.DefaultDBURL(dataDir)
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, dbURL, database.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(ctx, db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	if err := persistence.ValidateSchema(ctx, db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("validate schema: %w", err), errClose)
	}

	grants := persistence.NewGrantStore(db)
	menus := service.NewMenu(
		persistence.NewMenuStore(db),
		grants,
		logger,
		service.WithFilterByUser(cfg.filterByUser),
		service.WithDashboardBaseURL(cfg.dashboardBaseURL),
	)

	client := &Client{
		Menus:   menus,
		Grants:  grants,
		db:      db,
		closers: cfg.closers,
		logger:  logger,
	}

	if cfg.seedFile != "" {
		if err := client.seed(ctx, cfg.seedFile); err != nil {
			errClose := db.Close()
			return nil, errors.Join(err, errClose)
		}
	}

	return client, nil
}

func (c *Client) seed(ctx context.Context, path string) error {
	f, err := service.ReadSeedFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	err = c.Menus.Seed(ctx, f)
	if errors.Is(err, service.ErrNotEmpty) {
		c.logger.Debug("menu store already populated, skipping seed", slog.String("file", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed menus: %w", err)
	}
	return nil
}

// Close releases all resources.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.logger.Error("failed to close resource", slog.Any("error", err))
		}
	}

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("gdp client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}
