package session

import "errors"

var (
	// ErrBusy indicates a load or save is in flight.
	ErrBusy = errors.New("session is busy")

	// ErrNoChanges indicates a save was requested with nothing to save.
	ErrNoChanges = errors.New("no changes to save")

	// ErrEditing indicates the action requires the current edit to be
	// confirmed or cancelled first.
	ErrEditing = errors.New("an edit is in progress")

	// ErrNotEditing indicates there is no edit to confirm, cancel or update.
	ErrNotEditing = errors.New("no edit in progress")

	// ErrDeclined indicates the user declined the save confirmation.
	ErrDeclined = errors.New("save declined")

	// ErrNotLoaded indicates the tree has not been loaded.
	ErrNotLoaded = errors.New("menu not loaded")
)
