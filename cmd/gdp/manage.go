package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gdp-poc/gdp/application/session"
	"github.com/gdp-poc/gdp/infrastructure/menuclient"
	"github.com/gdp-poc/gdp/internal/config"
	"github.com/gdp-poc/gdp/internal/log"
	"github.com/gdp-poc/gdp/internal/tui"
)

// errNoServer is returned when no menu server is configured.
var errNoServer = errors.New("no menu server configured: set REMOTE_SERVER_URL or pass --server")

func manageCmd() *cobra.Command {
	var rf remoteFlags

	cmd := &cobra.Command{
		Use:   "manage",
		Short: "Edit the menu tree in an interactive terminal view",
		Long: `Edit the menu tree in an interactive terminal view.

Groups and pages can be reordered and edited locally; nothing is sent to the
server until the changes are confirmed with "s".

Environment variables:
  REMOTE_SERVER_URL    Menu server address
  REMOTE_USER          Identity sent as X-Forwarded-Email
  REMOTE_TIMEOUT       Request timeout in seconds (default: 30)
  REMOTE_MAX_RETRIES   Retries for failed reads (default: 3)
  LOG_FILE             Write logs here; the terminal is left to the view`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManage(cmd.Context(), rf)
		},
	}

	rf.register(cmd)
	return cmd
}

func runManage(ctx context.Context, rf remoteFlags) error {
	cfg, err := loadConfig(rf.envFile)
	if err != nil {
		return err
	}
	cfg = rf.apply(cfg)
	if !cfg.IsRemote() {
		return errNoServer
	}

	// The view owns the terminal, so logs only go to the log file.
	logger := log.Discard()
	if cfg.LogFile() != "" {
		logger = log.Discard().WithFile(cfg.LogFile(), cfg.LogLevel())
	}
	defer func() { _ = logger.Close() }()

	client := menuclient.NewFromConfig(cfg.Remote(), menuclient.WithLogger(logger.Slog()))
	prompter := tui.NewPrompter()
	s := session.New(client, prompter,
		session.WithLogger(logger.Slog()),
		session.WithMessages(menuclient.UserMessage),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tui.Run(ctx, s, prompter); err != nil {
		return fmt.Errorf("run management view: %w", err)
	}
	return nil
}

// remoteFlags are the flags of commands that talk to a menu server.
type remoteFlags struct {
	envFile string
	server  string
	user    string
}

func (f *remoteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&f.server, "server", "", "Menu server URL (default: REMOTE_SERVER_URL)")
	cmd.Flags().StringVar(&f.user, "user", "", "Identity sent to the server (default: REMOTE_USER)")
}

// apply overrides the remote settings of cfg with the flags that were set.
func (f remoteFlags) apply(cfg config.AppConfig) config.AppConfig {
	remote := cfg.Remote()
	opts := []config.RemoteConfigOption{
		config.WithServerURL(remote.ServerURL()),
		config.WithRemoteUser(remote.User()),
		config.WithRemoteTimeout(remote.Timeout()),
		config.WithRemoteMaxRetries(remote.MaxRetries()),
	}
	if f.server != "" {
		opts = append(opts, config.WithServerURL(f.server))
	}
	if f.user != "" {
		opts = append(opts, config.WithRemoteUser(f.user))
	}
	return cfg.Apply(config.WithRemoteConfig(config.NewRemoteConfigWithOptions(opts...)))
}
