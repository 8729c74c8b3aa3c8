// Package service provides the application operations behind the menu API
// and CLI.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdp-poc/gdp/domain/menu"
)

// MenuOption configures a Menu service.
type MenuOption func(*Menu)

// WithFilterByUser restricts structure reads to pages granted to the caller.
func WithFilterByUser(enabled bool) MenuOption {
	return func(m *Menu) { m.filterByUser = enabled }
}

// WithDashboardBaseURL sets the base used to build dashboard embed URLs.
func WithDashboardBaseURL(url string) MenuOption {
	return func(m *Menu) { m.dashboardBaseURL = url }
}

// Menu provides menu structure reads, batch replacement and page display.
type Menu struct {
	store            menu.Store
	grants           menu.GrantStore
	filterByUser     bool
	dashboardBaseURL string
	logger           *slog.Logger
}

// NewMenu creates a new Menu service. Grant filtering is on by default.
func NewMenu(store menu.Store, grants menu.GrantStore, logger *slog.Logger, opts ...MenuOption) *Menu {
	m := &Menu{
		store:        store,
		grants:       grants,
		filterByUser: true,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FilterByUser reports whether reads are restricted to granted pages.
func (s *Menu) FilterByUser() bool { return s.filterByUser }

// Structure returns the menu tree visible to userID with orders renumbered
// to 1..N. With grant filtering disabled userID is ignored.
func (s *Menu) Structure(ctx context.Context, userID string) (menu.Tree, error) {
	if !s.filterByUser {
		t, err := s.store.Tree(ctx)
		if err != nil {
			return menu.Tree{}, fmt.Errorf("load tree: %w", err)
		}
		return t.Renumber(), nil
	}
	if userID == "" {
		return menu.Tree{}, ErrMissingUser
	}
	t, err := s.store.TreeForUser(ctx, userID)
	if err != nil {
		return menu.Tree{}, fmt.Errorf("load tree for user: %w", err)
	}
	return t.Renumber(), nil
}

// Replace validates t and upserts every group and page in one transaction.
func (s *Menu) Replace(ctx context.Context, t menu.Tree) error {
	violations := append(menu.ValidateStructure(t), menu.ValidateTree(t)...)
	if err := menu.NewValidationError(violations); err != nil {
		s.logger.Warn("rejected menu update", slog.Int("violations", len(violations)))
		return err
	}
	if err := s.store.Replace(ctx, t); err != nil {
		return fmt.Errorf("replace tree: %w", err)
	}
	s.logger.Info("menu structure updated",
		slog.Int("groups", t.Len()),
		slog.Int("pages", t.PageCount()),
	)
	return nil
}

// Legacy returns the structure visible to userID in the route-based shape.
func (s *Menu) Legacy(ctx context.Context, userID string) ([]menu.LegacyGroup, error) {
	t, err := s.Structure(ctx, userID)
	if err != nil {
		return nil, err
	}
	return menu.Legacy(t), nil
}
