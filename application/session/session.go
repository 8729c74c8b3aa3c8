// Package session implements the management view as a state machine over a
// menu tree loaded from a Source.
//
// Edits are applied to a local copy of the tree and persisted wholesale by
// Save. The session lock is held only around state transitions, never across
// a call to the Source or the Confirmer, so a Snapshot can be taken while a
// load or save is in flight.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdp-poc/gdp/domain/menu"
)

// Source loads and saves the whole menu tree.
type Source interface {
	Load(ctx context.Context) (menu.Tree, error)
	Save(ctx context.Context, t menu.Tree) error
}

// Confirmer asks the user to approve a save.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// SavePrompt is the question passed to the Confirmer before saving.
const SavePrompt = "Save all menu changes?"

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMessages sets the function that turns a Source error into the message
// shown to the user.
func WithMessages(fn func(error) string) Option {
	return func(s *Session) { s.messageFor = fn }
}

// Session is the state of one management view.
type Session struct {
	source     Source
	confirmer  Confirmer
	logger     *slog.Logger
	messageFor func(error) string

	mu         sync.Mutex
	state      State
	loading    bool
	tree       menu.Tree
	hasChanges bool
	target     Target
	original   Draft
	draft      Draft
	expanded   map[string]bool
	violations []menu.Violation
	message    string
	notice     string
}

// New creates a Session in the loading state. Call Load to fetch the tree.
func New(source Source, confirmer Confirmer, opts ...Option) *Session {
	s := &Session{
		source:     source,
		confirmer:  confirmer,
		logger:     slog.New(slog.DiscardHandler),
		messageFor: func(err error) string { return err.Error() },
		state:      StateLoading,
		expanded:   map[string]bool{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns an immutable view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	expanded := make(map[string]bool, len(s.expanded))
	for k, v := range s.expanded {
		expanded[k] = v
	}
	violations := make([]menu.Violation, len(s.violations))
	copy(violations, s.violations)

	return Snapshot{
		State:      s.state,
		Tree:       s.tree,
		HasChanges: s.hasChanges,
		Target:     s.target,
		Draft:      s.draft,
		Violations: violations,
		Message:    s.message,
		Notice:     s.notice,
		expanded:   expanded,
	}
}

// Load fetches the tree from the Source, discarding local edits. On failure
// the session enters StateError, from which Load may be called again.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || s.state == StateSaving {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loading = true
	s.state = StateLoading
	s.message = ""
	s.mu.Unlock()

	return s.load(ctx)
}

func (s *Session) load(ctx context.Context) error {
	tree, err := s.source.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.state = StateError
		s.message = s.messageFor(err)
		s.logger.Error("failed to load menu", slog.String("error", err.Error()))
		return fmt.Errorf("load menu: %w", err)
	}

	s.tree = tree.Renumber()
	s.hasChanges = false
	s.clearEdit()
	s.violations = nil
	s.expanded = make(map[string]bool, tree.Len())
	for _, g := range tree.Groups() {
		s.expanded[g.ID()] = true
	}
	s.state = StateReady
	s.logger.Debug("menu loaded", slog.Int("groups", tree.Len()), slog.Int("pages", tree.PageCount()))
	return nil
}

// Toggle expands or collapses a group.
func (s *Session) Toggle(groupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded[groupID] = !s.expanded[groupID]
}

// MoveGroupUp moves a group one place up.
func (s *Session) MoveGroupUp(groupID string) error {
	return s.move(func(t menu.Tree) menu.Tree { return t.MoveGroupUp(groupID) })
}

// MoveGroupDown moves a group one place down.
func (s *Session) MoveGroupDown(groupID string) error {
	return s.move(func(t menu.Tree) menu.Tree { return t.MoveGroupDown(groupID) })
}

// MovePageUp moves a page one place up within its group.
func (s *Session) MovePageUp(groupID, pageID string) error {
	return s.move(func(t menu.Tree) menu.Tree { return t.MovePageUp(groupID, pageID) })
}

// MovePageDown moves a page one place down within its group.
func (s *Session) MovePageDown(groupID, pageID string) error {
	return s.move(func(t menu.Tree) menu.Tree { return t.MovePageDown(groupID, pageID) })
}

func (s *Session) move(fn func(menu.Tree) menu.Tree) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return err
	}
	if s.state == StateEditing {
		return ErrEditing
	}

	moved := fn(s.tree)
	if !moved.Equal(s.tree) {
		s.tree = moved
		s.hasChanges = true
	}
	s.notice = ""
	return nil
}

// EditGroup starts editing a group, cancelling any other edit.
func (s *Session) EditGroup(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return err
	}
	g, ok := s.tree.Group(groupID)
	if !ok {
		return fmt.Errorf("group %q: %w", groupID, menu.ErrNotFound)
	}

	s.startEdit(Target{GroupID: groupID}, Draft{Name: g.Name()})
	return nil
}

// EditPage starts editing a page, cancelling any other edit.
func (s *Session) EditPage(groupID, pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return err
	}
	g, ok := s.tree.Group(groupID)
	if !ok {
		return fmt.Errorf("group %q: %w", groupID, menu.ErrNotFound)
	}
	p, ok := g.Page(pageID)
	if !ok {
		return fmt.Errorf("page %q: %w", pageID, menu.ErrNotFound)
	}

	s.startEdit(Target{GroupID: groupID, PageID: pageID}, Draft{
		Name:        p.Name(),
		DashboardID: p.DashboardID(),
		URL:         p.URL(),
		GenieID:     p.GenieID(),
	})
	return nil
}

// SetDraft replaces the in-progress field values.
func (s *Session) SetDraft(d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.draft = d
	return nil
}

// Cancel discards the current edit.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}
	s.clearEdit()
	s.state = StateReady
	return nil
}

// Confirm validates the draft and applies it to the tree. On a validation
// failure the session stays in StateEditing and the violations are exposed
// through the Snapshot.
func (s *Session) Confirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return ErrNotEditing
	}

	updated, err := s.applyDraft()
	if err != nil {
		var verr *menu.ValidationError
		if errors.As(err, &verr) {
			s.violations = verr.Violations
			s.message = verr.Messages()[0]
		} else {
			s.message = err.Error()
		}
		return err
	}

	if !updated.Equal(s.tree) {
		s.tree = updated
		s.hasChanges = true
	}
	s.clearEdit()
	s.state = StateReady
	return nil
}

func (s *Session) applyDraft() (menu.Tree, error) {
	if !s.target.IsPage() {
		if s.draft.Name == s.original.Name {
			return s.tree, nil
		}
		return s.tree.RenameGroup(s.target.GroupID, s.draft.Name)
	}

	var u menu.PageUpdate
	if s.draft.Name != s.original.Name {
		u = u.WithName(s.draft.Name)
	}
	if s.draft.DashboardID != s.original.DashboardID {
		u = u.WithDashboardID(s.draft.DashboardID)
	}
	if s.draft.URL != s.original.URL {
		u = u.WithURL(s.draft.URL)
	}
	if s.draft.GenieID != s.original.GenieID {
		u = u.WithGenieID(s.draft.GenieID)
	}
	if u.IsEmpty() {
		return s.tree, nil
	}
	return s.tree.UpdatePage(s.target.GroupID, s.target.PageID, u)
}

// Save validates the whole tree, asks the Confirmer, and sends the tree to
// the Source. A tree with violations is never sent. After a successful save
// the tree is reloaded; after a failed save local edits are kept.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if err := s.readyLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.state == StateEditing {
		s.mu.Unlock()
		return ErrEditing
	}
	if !s.hasChanges {
		s.mu.Unlock()
		return ErrNoChanges
	}
	if err := menu.NewValidationError(menu.ValidateTree(s.tree)); err != nil {
		var verr *menu.ValidationError
		errors.As(err, &verr)
		s.violations = verr.Violations
		s.message = fmt.Sprintf("%d field(s) need fixing before saving", len(verr.Violations))
		s.mu.Unlock()
		return err
	}
	s.violations = nil
	s.message = ""
	s.notice = ""
	s.state = StateSaving
	tree := s.tree
	s.mu.Unlock()

	ok, err := s.confirmer.Confirm(ctx, SavePrompt)
	if err != nil || !ok {
		s.mu.Lock()
		s.state = StateReady
		s.notice = "changes not saved"
		s.mu.Unlock()
		if err != nil {
			return fmt.Errorf("confirm save: %w", err)
		}
		return ErrDeclined
	}

	if err := s.source.Save(ctx, tree); err != nil {
		s.mu.Lock()
		s.state = StateReady
		s.message = s.messageFor(err)
		s.mu.Unlock()
		s.logger.Error("failed to save menu", slog.String("error", err.Error()))
		return fmt.Errorf("save menu: %w", err)
	}

	s.mu.Lock()
	s.hasChanges = false
	s.loading = true
	s.state = StateLoading
	s.notice = "changes saved"
	s.mu.Unlock()
	s.logger.Info("menu saved", slog.Int("groups", tree.Len()), slog.Int("pages", tree.PageCount()))

	return s.load(ctx)
}

// readyLocked reports whether the tree can be acted on.
func (s *Session) readyLocked() error {
	if s.state.busy() {
		return ErrBusy
	}
	if s.state == StateError {
		return ErrNotLoaded
	}
	return nil
}

func (s *Session) startEdit(t Target, d Draft) {
	s.target = t
	s.original = d
	s.draft = d
	s.violations = nil
	s.message = ""
	s.notice = ""
	s.state = StateEditing
}

func (s *Session) clearEdit() {
	s.target = Target{}
	s.original = Draft{}
	s.draft = Draft{}
	s.violations = nil
	s.message = ""
}
