package menu

// LegacyItem is a page in the flat, route-based menu shape served to the
// template front-end.
type LegacyItem struct {
	MenuID   string `json:"menuId"`
	MenuName string `json:"menuName"`
	Route    string `json:"route"`
}

// LegacyGroup is a group in the route-based menu shape.
type LegacyGroup struct {
	MenuID   string       `json:"menuId"`
	MenuName string       `json:"menuName"`
	Children []LegacyItem `json:"children"`
}

// Route returns the front-end route of a page: the URL of redirect pages,
// the in-app page route of embedded pages, and "" for inert pages.
func Route(p Page) string {
	switch m := p.Mode().(type) {
	case Redirect:
		return m.URL
	case Embedded:
		return "/page/" + p.ID()
	default:
		return ""
	}
}

// Legacy projects the tree onto the route-based menu shape.
func Legacy(t Tree) []LegacyGroup {
	result := make([]LegacyGroup, 0, t.Len())
	for _, g := range t.groups {
		children := make([]LegacyItem, 0, len(g.pages))
		for _, p := range g.pages {
			children = append(children, LegacyItem{
				MenuID:   p.id,
				MenuName: p.name,
				Route:    Route(p),
			})
		}
		result = append(result, LegacyGroup{
			MenuID:   g.id,
			MenuName: g.name,
			Children: children,
		})
	}
	return result
}
