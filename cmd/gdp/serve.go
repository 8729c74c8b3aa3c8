package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gdp-poc/gdp"
	"github.com/gdp-poc/gdp/infrastructure/api"
	"github.com/gdp-poc/gdp/internal/config"
	"github.com/gdp-poc/gdp/internal/log"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
		static  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                 Server host to bind to (default: 0.0.0.0)
  PORT                 Server port to listen on (default: 8080)
  DATA_DIR             Data directory (default: ~/.gdp)
  DB_URL               Database URL (default: sqlite:///{data_dir}/gdp.db)
  LOG_LEVEL            Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT           Log format: pretty, json (default: pretty)
  LOG_FILE             Also write JSON logs to this rotated file
  STATIC_DIR           Built front-end to serve
  SEED_FILE            YAML menu loaded into an empty database
  FILTER_BY_USER       Only show pages granted to the caller (default: true)
  DASHBOARD_BASE_URL   Base of dashboard embed URLs
  CORS_ORIGINS         Comma-separated list of allowed origins`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile, host, port, static)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")
	cmd.Flags().StringVar(&static, "static-dir", "", "Directory of the built front-end")

	return cmd
}

func runServe(ctx context.Context, envFile, host string, port int, static string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port, static)

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.Configure(cfg)
	defer func() { _ = logger.Close() }()
	slogger := logger.Slog()

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(ctx, slog.LevelInfo, "starting gdp", attrs...)

	client, err := gdp.New(gdp.WithConfig(cfg), gdp.WithLogger(slogger))
	if err != nil {
		return fmt.Errorf("create gdp client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close gdp client", slog.Any("error", err))
		}
	}()

	apiServer := api.NewAPIServer(client,
		api.WithVersion(version),
		api.WithStaticDir(cfg.StaticDir()),
		api.WithCORSOrigins(cfg.CORSOrigins()),
	)

	server := api.NewServer(cfg.Addr(), slogger)
	server.Router().Mount("/", apiServer.Handler())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slogger.Info("starting server", slog.String("addr", cfg.Addr()))
		if err := server.Start(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slogger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int, static string) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}
	if static != "" {
		opts = append(opts, config.WithStaticDir(static))
	}

	return cfg.Apply(opts...)
}
