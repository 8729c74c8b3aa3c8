package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdp-poc/gdp/domain/menu"
	"github.com/gdp-poc/gdp/infrastructure/persistence"
	"github.com/gdp-poc/gdp/internal/testdb"
)

const seedYAML = `
menus:
  - id: m1
    name: 智能助手
    pages:
      - id: p1
        name: Chat
        url: https://chat.example.com
      - id: p2
        name: Sales
        dashboard_id: dash 01
        genie_id: genie-01
  - id: m2
    name: System
    pages:
      - id: p3
        name: Settings
      - id: p4
        name: Config
        url: /system-config
grants:
  - user: alice@example.com
    pages: [p1, p2, p4]
  - user: bob@example.com
    pages: [p3]
`

func newTestMenu(t *testing.T, opts ...MenuOption) *Menu {
	t.Helper()
	db := testdb.New(t)
	svc := NewMenu(persistence.NewMenuStore(db), persistence.NewGrantStore(db), slog.New(slog.DiscardHandler), opts...)

	seed, err := ParseSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)
	require.NoError(t, svc.Seed(context.Background(), seed))
	return svc
}

func TestMenu_StructureFiltersByUser(t *testing.T) {
	svc := newTestMenu(t)
	ctx := context.Background()

	alice, err := svc.Structure(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, 2, alice.Len())
	assert.Equal(t, 2, alice.Groups()[0].Len())
	m2 := alice.Groups()[1]
	require.Equal(t, 1, m2.Len())
	assert.Equal(t, "p4", m2.Pages()[0].ID())
	assert.Equal(t, 1, m2.Pages()[0].Order(), "orders are renumbered after filtering")

	bob, err := svc.Structure(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, bob.Len())
	assert.Equal(t, "m2", bob.Groups()[0].ID())
	assert.Equal(t, 1, bob.Groups()[0].Order())

	_, err = svc.Structure(ctx, "")
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestMenu_StructureUnfiltered(t *testing.T) {
	svc := newTestMenu(t, WithFilterByUser(false))

	tree, err := svc.Structure(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 4, tree.PageCount())
	assert.False(t, svc.FilterByUser())
}

func TestMenu_ReplaceRejectsViolations(t *testing.T) {
	svc := newTestMenu(t, WithFilterByUser(false))
	ctx := context.Background()

	bad := menu.NewTree([]menu.Group{
		menu.NewGroup("m1", " ", 1, []menu.Page{
			menu.NewPage("p1", "Chat", 0, strings.Repeat("d", 201), "", ""),
		}),
	})
	err := svc.Replace(ctx, bad)

	var verr *menu.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{
		"order must be a positive integer",
		"name must not be blank",
		"dashboard id must not exceed 200 characters",
	}, verr.Messages())

	tree, err := svc.Structure(ctx, "")
	require.NoError(t, err)
	g, ok := tree.Group("m1")
	require.True(t, ok)
	assert.Equal(t, "智能助手", g.Name(), "rejected update must not persist")
}

func TestMenu_ReplacePersists(t *testing.T) {
	svc := newTestMenu(t, WithFilterByUser(false))
	ctx := context.Background()

	tree, err := svc.Structure(ctx, "")
	require.NoError(t, err)
	tree = tree.MovePageDown("m1", "p1")
	tree, err = tree.RenameGroup("m2", "Admin")
	require.NoError(t, err)
	require.NoError(t, svc.Replace(ctx, tree))

	reloaded, err := svc.Structure(ctx, "")
	require.NoError(t, err)
	assert.True(t, tree.Equal(reloaded))
}

func TestMenu_Legacy(t *testing.T) {
	svc := newTestMenu(t)

	groups, err := svc.Legacy(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []menu.LegacyItem{
		{MenuID: "p1", MenuName: "Chat", Route: "https://chat.example.com"},
		{MenuID: "p2", MenuName: "Sales", Route: "/page/p2"},
	}, groups[0].Children)
}

func TestMenu_Display(t *testing.T) {
	svc := newTestMenu(t, WithDashboardBaseURL("https://dash.example.com/embed"))
	ctx := context.Background()

	embedded, err := svc.Display(ctx, "alice@example.com", "p2")
	require.NoError(t, err)
	assert.Equal(t, "m1", embedded.GroupID)
	assert.Equal(t, "dash 01", embedded.DashboardID)
	assert.Equal(t, "genie-01", embedded.GenieID)
	assert.Equal(t, "https://dash.example.com/embed/dash%2001", embedded.EmbedURL)

	external, err := svc.Display(ctx, "alice@example.com", "p1")
	require.NoError(t, err)
	assert.True(t, external.External)

	internal, err := svc.Display(ctx, "alice@example.com", "p4")
	require.NoError(t, err)
	assert.Equal(t, "/system-config", internal.URL)
	assert.False(t, internal.External)

	inert, err := svc.Display(ctx, "bob@example.com", "p3")
	require.NoError(t, err)
	assert.Equal(t, menu.Inert{}, inert.Mode)

	_, err = svc.Display(ctx, "bob@example.com", "p1")
	assert.ErrorIs(t, err, menu.ErrNotFound)
}

func TestMenu_RedirectURL(t *testing.T) {
	svc := newTestMenu(t)
	ctx := context.Background()

	target, err := svc.RedirectURL(ctx, "alice@example.com", "p1")
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com", target)

	_, err = svc.RedirectURL(ctx, "alice@example.com", "p2")
	assert.ErrorIs(t, err, ErrNotNavigable)
}

func TestMenu_SeedOnlyWhenEmpty(t *testing.T) {
	svc := newTestMenu(t)

	err := svc.Seed(context.Background(), SeedFile{Menus: []SeedMenu{{ID: "x", Name: "X"}}})
	assert.ErrorIs(t, err, ErrNotEmpty)
}

func TestParseSeed_UnknownField(t *testing.T) {
	_, err := ParseSeed(strings.NewReader("menus:\n  - id: m1\n    title: nope\n"))
	assert.Error(t, err)

	empty, err := ParseSeed(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, empty.Tree().Len())
}

func TestMenu_DisplayChecksGrants(t *testing.T) {
	ctx := context.Background()
	svc := newTestMenu(t)

	_, err := svc.Display(ctx, "", "p1")
	assert.ErrorIs(t, err, ErrMissingUser)

	_, err = svc.Display(ctx, "carol@example.com", "p1")
	assert.ErrorIs(t, err, menu.ErrNotFound)

	unfiltered := newTestMenu(t, WithFilterByUser(false))
	d, err := unfiltered.Display(ctx, "", "p1")
	require.NoError(t, err)
	assert.Equal(t, "https://chat.example.com", d.URL)
}
