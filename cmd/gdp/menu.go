package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/gdp-poc/gdp"
	"github.com/gdp-poc/gdp/application/service"
	"github.com/gdp-poc/gdp/domain/menu"
	"github.com/gdp-poc/gdp/infrastructure/menuclient"
	"github.com/gdp-poc/gdp/internal/config"
	"github.com/gdp-poc/gdp/internal/log"
)

const showNameWidth = 28

func menuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Inspect, validate and seed the menu tree",
	}

	cmd.AddCommand(menuShowCmd())
	cmd.AddCommand(menuListCmd())
	cmd.AddCommand(menuValidateCmd())
	cmd.AddCommand(menuSeedCmd())

	return cmd
}

// menuReader reads the menu from a server or from the local database.
type menuReader interface {
	Structure(ctx context.Context) (menu.Tree, error)
	List(ctx context.Context) ([]menu.LegacyGroup, error)
}

// localReader reads the local database as one user, or unfiltered when no
// user is given.
type localReader struct {
	client *gdp.Client
	user   string
}

func (r localReader) Structure(ctx context.Context) (menu.Tree, error) {
	return r.client.Menus.Structure(ctx, r.user)
}

func (r localReader) List(ctx context.Context) ([]menu.LegacyGroup, error) {
	return r.client.Menus.Legacy(ctx, r.user)
}

// openReader returns a server reader when a server is configured, else a
// reader over the local database. The returned func releases it.
func openReader(rf remoteFlags) (menuReader, func(), error) {
	cfg, err := loadConfig(rf.envFile)
	if err != nil {
		return nil, nil, err
	}
	cfg = rf.apply(cfg)

	logger := log.NewLogger(cfg.Apply(config.WithLogLevel("WARN")))
	if cfg.IsRemote() {
		client := menuclient.NewFromConfig(cfg.Remote(), menuclient.WithLogger(logger.Slog()))
		return client, func() { _ = logger.Close() }, nil
	}

	user := cfg.Remote().User()
	client, err := gdp.New(
		gdp.WithConfig(cfg),
		gdp.WithFilterByUser(cfg.FilterByUser() && user != ""),
		gdp.WithLogger(logger.Slog()),
	)
	if err != nil {
		_ = logger.Close()
		return nil, nil, fmt.Errorf("open menu database: %w", err)
	}
	release := func() {
		_ = client.Close()
		_ = logger.Close()
	}
	return localReader{client: client, user: user}, release, nil
}

func menuShowCmd() *cobra.Command {
	var rf remoteFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the menu tree",
		Long: `Print the menu tree.

The tree is read from the menu server when one is configured, otherwise from
the local database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, release, err := openReader(rf)
			if err != nil {
				return err
			}
			defer release()

			tree, err := reader.Structure(cmd.Context())
			if err != nil {
				return fmt.Errorf("read menu: %s: %w", menuclient.UserMessage(err), err)
			}
			printTree(cmd.OutOrStdout(), tree)
			return nil
		},
	}

	rf.register(cmd)
	return cmd
}

func menuListCmd() *cobra.Command {
	var rf remoteFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the route-based menu as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader, release, err := openReader(rf)
			if err != nil {
				return err
			}
			defer release()

			groups, err := reader.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("read menu: %s: %w", menuclient.UserMessage(err), err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(groups)
		},
	}

	rf.register(cmd)
	return cmd
}

func menuValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a YAML menu file against the menu rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := service.ReadSeedFile(file)
			if err != nil {
				return err
			}
			return validateTree(cmd.OutOrStdout(), seed.Tree())
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML menu file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// validateTree prints every violation of t and fails when there are any.
func validateTree(w io.Writer, t menu.Tree) error {
	violations := append(menu.ValidateStructure(t), menu.ValidateTree(t)...)
	for _, v := range violations {
		_, _ = fmt.Fprintf(w, "✗ %s\n", v)
	}
	if len(violations) > 0 {
		return fmt.Errorf("%d violation(s) found", len(violations))
	}
	_, _ = fmt.Fprintf(w, "✓ %d groups, %d pages\n", t.Len(), t.PageCount())
	return nil
}

func menuSeedCmd() *cobra.Command {
	var (
		envFile string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML menu file into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), envFile, file)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&file, "file", "", "YAML menu file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runSeed(ctx context.Context, w io.Writer, envFile, file string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	seed, err := service.ReadSeedFile(file)
	if err != nil {
		return err
	}

	logger := log.NewLogger(cfg)
	defer func() { _ = logger.Close() }()

	client, err := gdp.New(gdp.WithConfig(cfg.Apply(config.WithSeedFile(""))), gdp.WithLogger(logger.Slog()))
	if err != nil {
		return fmt.Errorf("open menu database: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Menus.Seed(ctx, seed); err != nil {
		if errors.Is(err, service.ErrNotEmpty) {
			return fmt.Errorf("database already holds a menu: %w", err)
		}
		return err
	}
	_, _ = fmt.Fprintf(w, "seeded %d groups and %d grants\n", len(seed.Menus), len(seed.Grants))
	return nil
}

func printTree(w io.Writer, t menu.Tree) {
	for _, g := range t.Groups() {
		_, _ = fmt.Fprintf(w, "%d. %s (%s)\n", g.Order(), g.Name(), g.ID())
		for _, p := range g.Pages() {
			name := runewidth.FillRight(runewidth.Truncate(p.Name(), showNameWidth, "…"), showNameWidth)
			_, _ = fmt.Fprintf(w, "   %d. %s %-9s %s\n", p.Order(), name, p.Mode(), pageDetail(p))
		}
	}
}

func pageDetail(p menu.Page) string {
	switch m := p.Mode().(type) {
	case menu.Embedded:
		if p.GenieID() != "" {
			return m.DashboardID + " (genie " + p.GenieID() + ")"
		}
		return m.DashboardID
	case menu.Redirect:
		return m.URL
	default:
		return ""
	}
}
