package menu

import "fmt"

// Tree is the ordered collection of menu groups. Trees are values: every
// operation returns a new Tree and never mutates the receiver, so a snapshot
// held by one consumer is not affected by edits made through another.
type Tree struct {
	groups []Group
}

// NewTree creates a Tree from groups in display order. The slice is copied.
func NewTree(groups []Group) Tree {
	copied := make([]Group, len(groups))
	copy(copied, groups)
	return Tree{groups: copied}
}

// Groups returns a copy of the groups in display order.
func (t Tree) Groups() []Group {
	result := make([]Group, len(t.groups))
	copy(result, t.groups)
	return result
}

// Len returns the number of groups.
func (t Tree) Len() int { return len(t.groups) }

// PageCount returns the number of pages across all groups.
func (t Tree) PageCount() int {
	n := 0
	for _, g := range t.groups {
		n += len(g.pages)
	}
	return n
}

// Group returns the group with the given id.
func (t Tree) Group(id string) (Group, bool) {
	if i := t.groupIndex(id); i >= 0 {
		return t.groups[i], true
	}
	return Group{}, false
}

// FindPage returns the page with the given id and the group holding it.
func (t Tree) FindPage(pageID string) (Group, Page, bool) {
	for _, g := range t.groups {
		if p, ok := g.Page(pageID); ok {
			return g, p, true
		}
	}
	return Group{}, Page{}, false
}

// Renumber returns a tree whose group and page orders equal their 1-based
// positions.
func (t Tree) Renumber() Tree {
	groups := make([]Group, len(t.groups))
	for i, g := range t.groups {
		pages := make([]Page, len(g.pages))
		for j, p := range g.pages {
			pages[j] = p.withOrder(j + 1)
		}
		groups[i] = g.withOrder(i + 1).withPages(pages)
	}
	return Tree{groups: groups}
}

// MoveGroupUp swaps the group with its predecessor. Moving the first group,
// or a group that does not exist, returns the tree unchanged.
func (t Tree) MoveGroupUp(groupID string) Tree {
	return t.moveGroup(groupID, -1)
}

// MoveGroupDown swaps the group with its successor. Moving the last group,
// or a group that does not exist, returns the tree unchanged.
func (t Tree) MoveGroupDown(groupID string) Tree {
	return t.moveGroup(groupID, 1)
}

// MovePageUp swaps the page with its predecessor inside its group.
//
// Every move renumbers the whole sibling collection to 1..N, so orders loaded
// with gaps come out contiguous.
func (t Tree) MovePageUp(groupID, pageID string) Tree {
	return t.movePage(groupID, pageID, -1)
}

// MovePageDown swaps the page with its successor inside its group.
func (t Tree) MovePageDown(groupID, pageID string) Tree {
	return t.movePage(groupID, pageID, 1)
}

func (t Tree) moveGroup(groupID string, delta int) Tree {
	i := t.groupIndex(groupID)
	j := i + delta
	if i < 0 || j < 0 || j >= len(t.groups) {
		return t
	}

	groups := t.Groups()
	groups[i], groups[j] = groups[j], groups[i]
	for k := range groups {
		groups[k] = groups[k].withOrder(k + 1)
	}
	return Tree{groups: groups}
}

func (t Tree) movePage(groupID, pageID string, delta int) Tree {
	gi := t.groupIndex(groupID)
	if gi < 0 {
		return t
	}
	group := t.groups[gi]
	i := group.pageIndex(pageID)
	j := i + delta
	if i < 0 || j < 0 || j >= len(group.pages) {
		return t
	}

	pages := group.Pages()
	pages[i], pages[j] = pages[j], pages[i]
	for k := range pages {
		pages[k] = pages[k].withOrder(k + 1)
	}

	groups := t.Groups()
	groups[gi] = group.withPages(pages)
	return Tree{groups: groups}
}

// RenameGroup returns a tree with the group renamed. It fails with
// ErrNotFound when the group does not exist and with a *ValidationError when
// the name breaks the name rule; the receiver is never modified.
func (t Tree) RenameGroup(groupID, name string) (Tree, error) {
	gi := t.groupIndex(groupID)
	if gi < 0 {
		return t, fmt.Errorf("%w: menu group %q", ErrNotFound, groupID)
	}

	if msg := nameRule(name); msg != "" {
		return t, &ValidationError{Violations: []Violation{{
			GroupID:       groupID,
			GroupPosition: gi + 1,
			Field:         FieldName,
			Message:       msg,
		}}}
	}

	groups := t.Groups()
	groups[gi] = groups[gi].withName(name)
	return Tree{groups: groups}, nil
}

// UpdatePage applies a partial update to a page. Only fields present in the
// update are validated and changed. It fails with ErrNotFound when the group
// or page does not exist and with a *ValidationError listing every rejected
// field otherwise.
func (t Tree) UpdatePage(groupID, pageID string, update PageUpdate) (Tree, error) {
	gi := t.groupIndex(groupID)
	if gi < 0 {
		return t, fmt.Errorf("%w: menu group %q", ErrNotFound, groupID)
	}
	group := t.groups[gi]
	pi := group.pageIndex(pageID)
	if pi < 0 {
		return t, fmt.Errorf("%w: page %q in menu group %q", ErrNotFound, pageID, groupID)
	}

	violations := validateUpdate(update)
	for i := range violations {
		violations[i].GroupID = groupID
		violations[i].PageID = pageID
		violations[i].GroupPosition = gi + 1
		violations[i].PagePosition = pi + 1
	}
	if len(violations) > 0 {
		return t, &ValidationError{Violations: violations}
	}

	pages := group.Pages()
	pages[pi] = update.apply(pages[pi])

	groups := t.Groups()
	groups[gi] = group.withPages(pages)
	return Tree{groups: groups}, nil
}

// Equal reports whether both trees hold the same groups and pages in the same
// order with the same field values.
func (t Tree) Equal(other Tree) bool {
	if len(t.groups) != len(other.groups) {
		return false
	}
	for i, g := range t.groups {
		o := other.groups[i]
		if g.id != o.id || g.name != o.name || g.order != o.order || len(g.pages) != len(o.pages) {
			return false
		}
		for j, p := range g.pages {
			q := o.pages[j]
			if p.id != q.id || p.name != q.name || p.order != q.order ||
				p.dashboardID != q.dashboardID || p.url != q.url || p.genieID != q.genieID {
				return false
			}
		}
	}
	return true
}

func (t Tree) groupIndex(id string) int {
	for i, g := range t.groups {
		if g.id == id {
			return i
		}
	}
	return -1
}
