package menu

// Group is a named, ordered collection of pages shown as a collapsible
// section of the sidebar.
type Group struct {
	id    string
	name  string
	order int
	pages []Page
}

// NewGroup creates a new Group. The pages slice is copied.
func NewGroup(id, name string, order int, pages []Page) Group {
	copied := make([]Page, len(pages))
	copy(copied, pages)
	return Group{
		id:    id,
		name:  name,
		order: order,
		pages: copied,
	}
}

// ID returns the group identifier.
func (g Group) ID() string { return g.id }

// Name returns the display name.
func (g Group) Name() string { return g.name }

// Order returns the 1-based position among sibling groups.
func (g Group) Order() int { return g.order }

// Pages returns a copy of the group's pages in display order.
func (g Group) Pages() []Page {
	result := make([]Page, len(g.pages))
	copy(result, g.pages)
	return result
}

// Len returns the number of pages.
func (g Group) Len() int { return len(g.pages) }

// Page returns the page with the given id.
func (g Group) Page(id string) (Page, bool) {
	if i := g.pageIndex(id); i >= 0 {
		return g.pages[i], true
	}
	return Page{}, false
}

func (g Group) pageIndex(id string) int {
	for i, p := range g.pages {
		if p.id == id {
			return i
		}
	}
	return -1
}

func (g Group) withOrder(order int) Group {
	g.order = order
	return g
}

func (g Group) withName(name string) Group {
	g.name = name
	return g
}

// withPages returns the group holding pages. The caller owns pages.
func (g Group) withPages(pages []Page) Group {
	g.pages = pages
	return g
}
