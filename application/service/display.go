package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/gdp-poc/gdp/domain/menu"
)

// Display describes how a page is shown.
type Display struct {
	GroupID     string
	Page        menu.Page
	Mode        menu.Mode
	DashboardID string
	GenieID     string
	EmbedURL    string
	URL         string
	External    bool
}

// Display resolves how the page pageID is shown to userID. A page the user
// has no grant for reports menu.ErrNotFound.
func (s *Menu) Display(ctx context.Context, userID, pageID string) (Display, error) {
	if s.filterByUser && userID == "" {
		return Display{}, ErrMissingUser
	}
	t, err := s.store.Tree(ctx)
	if err != nil {
		return Display{}, fmt.Errorf("load tree: %w", err)
	}
	g, p, ok := t.Renumber().FindPage(pageID)
	if ok && s.filterByUser {
		ok, err = s.granted(ctx, userID, pageID)
		if err != nil {
			return Display{}, err
		}
	}
	if !ok {
		return Display{}, fmt.Errorf("page %q: %w", pageID, menu.ErrNotFound)
	}

	d := Display{GroupID: g.ID(), Page: p, Mode: p.Mode()}
	switch m := p.Mode().(type) {
	case menu.Embedded:
		d.DashboardID = m.DashboardID
		d.GenieID = p.GenieID()
		d.EmbedURL = s.embedURL(m.DashboardID)
	case menu.Redirect:
		d.URL = m.URL
		d.External = m.External()
	}
	return d, nil
}

// RedirectURL returns the target of a redirect-mode page.
func (s *Menu) RedirectURL(ctx context.Context, userID, pageID string) (string, error) {
	d, err := s.Display(ctx, userID, pageID)
	if err != nil {
		return "", err
	}
	if _, ok := d.Mode.(menu.Redirect); !ok {
		return "", fmt.Errorf("page %q: %w", pageID, ErrNotNavigable)
	}
	return d.URL, nil
}

func (s *Menu) granted(ctx context.Context, userID, pageID string) (bool, error) {
	ids, err := s.grants.PageIDs(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load grants: %w", err)
	}
	return slices.Contains(ids, pageID), nil
}

func (s *Menu) embedURL(dashboardID string) string {
	if s.dashboardBaseURL == "" {
		return ""
	}
	return s.dashboardBaseURL + "/" + url.PathEscape(dashboardID)
}
