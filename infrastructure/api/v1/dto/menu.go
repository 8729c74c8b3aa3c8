// Package dto holds the JSON shapes of the menu API.
package dto

import "github.com/gdp-poc/gdp/domain/menu"

// Page is a page on the wire. Unset optional fields are null.
type Page struct {
	PageID      string  `json:"page_id"`
	PageName    string  `json:"page_name"`
	PageNo      int     `json:"page_no"`
	MenuID      string  `json:"menu_id"`
	DashboardID *string `json:"dashboard_id"`
	URL         *string `json:"url"`
	GenieID     *string `json:"genie_id"`
}

// MenuGroup is a menu group on the wire.
type MenuGroup struct {
	MenuID   string `json:"menu_id"`
	MenuName string `json:"menu_name"`
	MenuNo   int    `json:"menu_no"`
	Pages    []Page `json:"pages"`
}

// StructureResponse is the body of GET /api/menu/structure.
type StructureResponse struct {
	MenuGroups []MenuGroup `json:"menuGroups"`
}

// BatchUpdateRequest is the body of POST /api/menu/structure/batch-update.
type BatchUpdateRequest struct {
	MenuGroups []MenuGroup `json:"menuGroups"`
}

// Violation is a rejected field in a batch update.
type Violation struct {
	Key     string `json:"key"`
	MenuID  string `json:"menu_id"`
	PageID  string `json:"page_id,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// StatusResponse reports the outcome of a write, or an error.
type StatusResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Error      string      `json:"error,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

// LegacyListResponse is the body of GET /api/menu/list.
type LegacyListResponse struct {
	Success bool               `json:"success"`
	Data    []menu.LegacyGroup `json:"data"`
}

// DisplayResponse describes how a page is shown.
type DisplayResponse struct {
	PageID      string `json:"page_id"`
	PageName    string `json:"page_name"`
	MenuID      string `json:"menu_id"`
	Mode        string `json:"mode"`
	Navigable   bool   `json:"navigable"`
	DashboardID string `json:"dashboard_id,omitempty"`
	GenieID     string `json:"genie_id,omitempty"`
	EmbedURL    string `json:"embed_url,omitempty"`
	URL         string `json:"url,omitempty"`
	External    bool   `json:"external,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// FromTree converts a tree to its wire shape.
func FromTree(t menu.Tree) []MenuGroup {
	groups := t.Groups()
	result := make([]MenuGroup, len(groups))
	for i, g := range groups {
		pages := g.Pages()
		wire := make([]Page, len(pages))
		for j, p := range pages {
			wire[j] = Page{
				PageID:      p.ID(),
				PageName:    p.Name(),
				PageNo:      p.Order(),
				MenuID:      g.ID(),
				DashboardID: nullable(p.DashboardID()),
				URL:         nullable(p.URL()),
				GenieID:     nullable(p.GenieID()),
			}
		}
		result[i] = MenuGroup{
			MenuID:   g.ID(),
			MenuName: g.Name(),
			MenuNo:   g.Order(),
			Pages:    wire,
		}
	}
	return result
}

// ToTree converts wire groups to a tree. Pages belong to the group that
// lists them; their menu_id field is not consulted.
func ToTree(groups []MenuGroup) menu.Tree {
	result := make([]menu.Group, len(groups))
	for i, g := range groups {
		pages := make([]menu.Page, len(g.Pages))
		for j, p := range g.Pages {
			pages[j] = menu.NewPage(p.PageID, p.PageName, p.PageNo, value(p.DashboardID), value(p.URL), value(p.GenieID))
		}
		result[i] = menu.NewGroup(g.MenuID, g.MenuName, g.MenuNo, pages)
	}
	return menu.NewTree(result)
}

// FromViolations converts domain violations to their wire shape.
func FromViolations(vs []menu.Violation) []Violation {
	result := make([]Violation, len(vs))
	for i, v := range vs {
		result[i] = Violation{
			Key:     v.Key(),
			MenuID:  v.GroupID,
			PageID:  v.PageID,
			Field:   string(v.Field),
			Message: v.String(),
		}
	}
	return result
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
