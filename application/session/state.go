package session

// State is a phase of the management view.
type State int

// States.
const (
	StateLoading State = iota
	StateReady
	StateEditing
	StateSaving
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// busy reports whether a network call owns the session.
func (s State) busy() bool {
	return s == StateLoading || s == StateSaving
}

// Target identifies the group or page being edited. PageID is empty when a
// group is edited.
type Target struct {
	GroupID string
	PageID  string
}

// IsPage reports whether the target is a page.
func (t Target) IsPage() bool { return t.PageID != "" }

// Draft holds the in-progress field values of an edit. Only Name applies to
// groups.
type Draft struct {
	Name        string
	DashboardID string
	URL         string
	GenieID     string
}
