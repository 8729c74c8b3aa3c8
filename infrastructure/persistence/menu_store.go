package persistence

import (
	"context"
	"fmt"

	"github.com/gdp-poc/gdp/domain/menu"
	"github.com/gdp-poc/gdp/internal/database"
)

// MenuStore implements menu.Store using GORM.
type MenuStore struct {
	db     database.Database
	groups database.Repository[menu.Group, MenuModel]
	pages  database.Repository[PlacedPage, PageModel]
}

// NewMenuStore creates a new MenuStore.
func NewMenuStore(db database.Database) MenuStore {
	return MenuStore{
		db:     db,
		groups: database.NewRepository[menu.Group, MenuModel](db, GroupMapper{}, "menu group"),
		pages:  database.NewRepository[PlacedPage, PageModel](db, PageMapper{}, "page"),
	}
}

// Tree returns every group and page ordered by menu_no and page_no.
func (s MenuStore) Tree(ctx context.Context) (menu.Tree, error) {
	groups, err := s.groups.Find(ctx, database.NewQuery().OrderAsc("menu_no").OrderAsc("menu_id"))
	if err != nil {
		return menu.Tree{}, err
	}
	pages, err := s.pages.Find(ctx, database.NewQuery().OrderAsc("page_no").OrderAsc("page_id"))
	if err != nil {
		return menu.Tree{}, err
	}
	return assemble(groups, pages, false), nil
}

// TreeForUser returns the tree restricted to pages granted to userID. Groups
// left without pages are dropped.
func (s MenuStore) TreeForUser(ctx context.Context, userID string) (menu.Tree, error) {
	groups, err := s.groups.Find(ctx, database.NewQuery().OrderAsc("menu_no").OrderAsc("menu_id"))
	if err != nil {
		return menu.Tree{}, err
	}

	var models []PageModel
	err = s.db.Session(ctx).
		Model(&PageModel{}).
		Joins("INNER JOIN gdp_user_page up ON up.page_id = gdp_page_data.page_id").
		Where("up.user_id = ?", userID).
		Order("gdp_page_data.page_no ASC").
		Order("gdp_page_data.page_id ASC").
		Find(&models).Error
	if err != nil {
		return menu.Tree{}, fmt.Errorf("find pages for user: %w", err)
	}

	mapper := PageMapper{}
	pages := make([]PlacedPage, len(models))
	for i, m := range models {
		pages[i] = mapper.ToDomain(m)
	}
	return assemble(groups, pages, true), nil
}

// Replace upserts every group and page of t in one transaction. Rows are
// matched by id; pages move to the group that holds them in t. Rows absent
// from t are left untouched.
func (s MenuStore) Replace(ctx context.Context, t menu.Tree) error {
	groups := t.Groups()
	var pages []PlacedPage
	for _, g := range groups {
		for _, p := range g.Pages() {
			pages = append(pages, PlacedPage{GroupID: g.ID(), Page: p})
		}
	}

	return database.WithTransaction(ctx, s.db, func(tx database.Database) error {
		if err := s.groups.In(tx).Upsert(ctx, groups, "menu_id"); err != nil {
			return err
		}
		return s.pages.In(tx).Upsert(ctx, pages, "page_id")
	})
}

// Empty reports whether no menu group is stored.
func (s MenuStore) Empty(ctx context.Context) (bool, error) {
	n, err := s.groups.Count(ctx, database.NewQuery())
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// assemble attaches pages to their groups in the given order. Pages whose
// group does not exist are dropped.
func assemble(groups []menu.Group, pages []PlacedPage, dropEmpty bool) menu.Tree {
	byGroup := make(map[string][]menu.Page, len(groups))
	for _, p := range pages {
		byGroup[p.GroupID] = append(byGroup[p.GroupID], p.Page)
	}

	result := make([]menu.Group, 0, len(groups))
	for _, g := range groups {
		children := byGroup[g.ID()]
		if dropEmpty && len(children) == 0 {
			continue
		}
		result = append(result, menu.NewGroup(g.ID(), g.Name(), g.Order(), children))
	}
	return menu.NewTree(result)
}
