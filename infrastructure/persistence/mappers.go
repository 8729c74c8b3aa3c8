package persistence

import "github.com/gdp-poc/gdp/domain/menu"

// PlacedPage is a page together with the id of the group holding it.
type PlacedPage struct {
	GroupID string
	Page    menu.Page
}

// GroupMapper maps between a domain Group header and MenuModel. Pages are
// stored separately and are not carried by the mapping.
type GroupMapper struct{}

// ToDomain converts a MenuModel to a page-less domain Group.
func (GroupMapper) ToDomain(e MenuModel) menu.Group {
	return menu.NewGroup(e.MenuID, e.MenuName, e.MenuNo, nil)
}

// ToModel converts a domain Group to a MenuModel.
func (GroupMapper) ToModel(g menu.Group) MenuModel {
	return MenuModel{
		MenuID:   g.ID(),
		MenuName: g.Name(),
		MenuNo:   g.Order(),
	}
}

// PageMapper maps between PlacedPage and PageModel.
type PageMapper struct{}

// ToDomain converts a PageModel to a PlacedPage.
func (PageMapper) ToDomain(e PageModel) PlacedPage {
	return PlacedPage{
		GroupID: e.MenuID,
		Page: menu.NewPage(
			e.PageID,
			e.PageName,
			e.PageNo,
			fromNullable(e.DashboardID),
			fromNullable(e.URL),
			fromNullable(e.GenieID),
		),
	}
}

// ToModel converts a PlacedPage to a PageModel.
func (PageMapper) ToModel(p PlacedPage) PageModel {
	return PageModel{
		PageID:      p.Page.ID(),
		PageName:    p.Page.Name(),
		PageNo:      p.Page.Order(),
		MenuID:      p.GroupID,
		DashboardID: toNullable(p.Page.DashboardID()),
		URL:         toNullable(p.Page.URL()),
		GenieID:     toNullable(p.Page.GenieID()),
	}
}

// GrantMapper maps between menu.Grant and UserPageModel.
type GrantMapper struct{}

// ToDomain converts a UserPageModel to a Grant.
func (GrantMapper) ToDomain(e UserPageModel) menu.Grant {
	return menu.Grant{UserID: e.UserID, PageID: e.PageID}
}

// ToModel converts a Grant to a UserPageModel.
func (GrantMapper) ToModel(g menu.Grant) UserPageModel {
	return UserPageModel{UserID: g.UserID, PageID: g.PageID}
}

func toNullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNullable(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
