package menu

import "strings"

// Mode is the display mode of a page. It is one of Embedded, Redirect or
// Inert and is derived from the page's optional fields when the page is
// built or updated.
type Mode interface {
	isMode()
	String() string
}

// Embedded pages are rendered inline from a dashboard.
type Embedded struct {
	DashboardID string
}

// Redirect pages navigate to a URL.
type Redirect struct {
	URL string
}

// Inert pages carry neither a dashboard nor a URL and are not navigable.
type Inert struct{}

func (Embedded) isMode() {}
func (Redirect) isMode() {}
func (Inert) isMode()    {}

// String returns the mode name.
func (Embedded) String() string { return "embedded" }

// String returns the mode name.
func (Redirect) String() string { return "redirect" }

// String returns the mode name.
func (Inert) String() string { return "inert" }

// External reports whether the redirect target leaves the application.
func (r Redirect) External() bool {
	return strings.HasPrefix(r.URL, "http://") || strings.HasPrefix(r.URL, "https://")
}

func modeOf(dashboardID, url string) Mode {
	switch {
	case dashboardID != "":
		return Embedded{DashboardID: dashboardID}
	case url != "":
		return Redirect{URL: url}
	default:
		return Inert{}
	}
}

// Page is a leaf entry of a menu group.
// Empty optional fields mean the field is unset.
type Page struct {
	id          string
	name        string
	order       int
	dashboardID string
	url         string
	genieID     string
	mode        Mode
}

// NewPage creates a new Page.
func NewPage(id, name string, order int, dashboardID, url, genieID string) Page {
	return Page{
		id:          id,
		name:        name,
		order:       order,
		dashboardID: dashboardID,
		url:         url,
		genieID:     genieID,
		mode:        modeOf(dashboardID, url),
	}
}

// ID returns the page identifier.
func (p Page) ID() string { return p.id }

// Name returns the display name.
func (p Page) Name() string { return p.name }

// Order returns the 1-based position among sibling pages.
func (p Page) Order() int { return p.order }

// DashboardID returns the embedded dashboard identifier, or "".
func (p Page) DashboardID() string { return p.dashboardID }

// URL returns the redirect target, or "".
func (p Page) URL() string { return p.url }

// GenieID returns the Genie space identifier, or "".
func (p Page) GenieID() string { return p.genieID }

// Mode returns the display mode.
func (p Page) Mode() Mode {
	if p.mode == nil {
		return modeOf(p.dashboardID, p.url)
	}
	return p.mode
}

// Navigable reports whether the page can be opened on its own.
func (p Page) Navigable() bool {
	_, inert := p.Mode().(Inert)
	return !inert
}

func (p Page) withOrder(order int) Page {
	p.order = order
	return p
}

// PageUpdate is a partial update to a page. Nil fields are left unchanged.
type PageUpdate struct {
	Name        *string
	DashboardID *string
	URL         *string
	GenieID     *string
}

// WithName sets the name in the update.
func (u PageUpdate) WithName(name string) PageUpdate {
	u.Name = &name
	return u
}

// WithDashboardID sets the dashboard identifier in the update.
func (u PageUpdate) WithDashboardID(id string) PageUpdate {
	u.DashboardID = &id
	return u
}

// WithURL sets the URL in the update.
func (u PageUpdate) WithURL(url string) PageUpdate {
	u.URL = &url
	return u
}

// WithGenieID sets the Genie identifier in the update.
func (u PageUpdate) WithGenieID(id string) PageUpdate {
	u.GenieID = &id
	return u
}

// IsEmpty reports whether the update changes nothing.
func (u PageUpdate) IsEmpty() bool {
	return u.Name == nil && u.DashboardID == nil && u.URL == nil && u.GenieID == nil
}

func (u PageUpdate) apply(p Page) Page {
	if u.Name != nil {
		p.name = *u.Name
	}
	if u.DashboardID != nil {
		p.dashboardID = *u.DashboardID
	}
	if u.URL != nil {
		p.url = *u.URL
	}
	if u.GenieID != nil {
		p.genieID = *u.GenieID
	}
	p.mode = modeOf(p.dashboardID, p.url)
	return p
}
