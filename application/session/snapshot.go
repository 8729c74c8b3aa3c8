package session

import "github.com/gdp-poc/gdp/domain/menu"

// Snapshot is an immutable view of a Session for rendering.
type Snapshot struct {
	State      State
	Tree       menu.Tree
	HasChanges bool
	// Target and Draft are set in StateEditing.
	Target     Target
	Draft      Draft
	Violations []menu.Violation
	// Message is the last error shown to the user.
	Message string
	Notice  string

	expanded map[string]bool
}

// CanSave reports whether the save action is enabled.
func (s Snapshot) CanSave() bool {
	return s.State == StateReady && s.HasChanges
}

// Expanded reports whether a group is expanded.
func (s Snapshot) Expanded(groupID string) bool {
	return s.expanded[groupID]
}

// Editing reports whether t is the entity being edited.
func (s Snapshot) Editing(t Target) bool {
	return s.State == StateEditing && s.Target == t
}
