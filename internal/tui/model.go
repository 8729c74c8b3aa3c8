// Package tui renders a management session as a terminal UI.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gdp-poc/gdp/application/session"
	"github.com/gdp-poc/gdp/domain/menu"
)

type loadedMsg struct{ err error }

type savedMsg struct{ err error }

// row is one visible line of the tree. pageID is empty for group rows.
type row struct {
	groupID string
	pageID  string
}

// Model is the bubbletea model of the management view.
type Model struct {
	ctx      context.Context
	session  *session.Session
	prompter *Prompter

	snap     session.Snapshot
	rows     []row
	cursor   int
	form     form
	pending  *confirmRequestMsg
	working  string
	status   string
	width    int
	quitting bool
}

// NewModel creates a Model over s. Confirmations requested through p are
// shown as y/n prompts.
func NewModel(ctx context.Context, s *session.Session, p *Prompter) Model {
	m := Model{ctx: ctx, session: s, prompter: p, width: 100}
	m.refresh()
	return m
}

// Run shows the management view until the user quits or ctx is done.
func Run(ctx context.Context, s *session.Session, p *Prompter) error {
	_, err := tea.NewProgram(NewModel(ctx, s, p), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init loads the tree and starts listening for confirm requests.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.prompter.wait(m.ctx))
}

func (m Model) loadCmd() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg { return loadedMsg{err: s.Load(ctx)} }
}

func (m Model) saveCmd() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg { return savedMsg{err: s.Save(ctx)} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case loadedMsg:
		m.working = ""
		m.status = ""
		m.refresh()
		return m, nil
	case savedMsg:
		m.working = ""
		m.status = statusFor(msg.err)
		m.refresh()
		return m, nil
	case confirmRequestMsg:
		m.pending = &msg
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch {
		case m.pending != nil:
			return m.updatePrompt(msg)
		case m.snap.State == session.StateEditing && m.form.active():
			return m.updateForm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.pending != nil {
		m.pending.reply <- false
		m.pending = nil
	}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y":
		answer = true
	case "n", "N", "esc":
	default:
		return m, nil
	}
	m.pending.reply <- answer
	m.pending = nil
	if answer {
		m.working = "saving"
	}
	return m, m.prompter.wait(m.ctx)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.status = statusFor(m.session.Cancel())
		m.form = form{}
		m.refresh()
		return m, nil
	case "tab", "down":
		m.form = m.form.move(1)
		return m, nil
	case "shift+tab", "up":
		m.form = m.form.move(-1)
		return m, nil
	case "enter":
		if err := m.session.SetDraft(m.form.draft()); err != nil {
			m.status = statusFor(err)
			return m, nil
		}
		if err := m.session.Confirm(); err == nil {
			m.form = form{}
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter", " ":
		if r, ok := m.selected(); ok && r.pageID == "" {
			m.session.Toggle(r.groupID)
		}
	case "K", "shift+up":
		m.status = statusFor(m.move(-1))
	case "J", "shift+down":
		m.status = statusFor(m.move(1))
	case "e":
		m.status = statusFor(m.edit())
	case "s":
		if m.working != "" {
			m.status = "busy, please wait"
			return m, nil
		}
		if !m.snap.CanSave() {
			m.status = "no changes to save"
			return m, nil
		}
		m.working = "waiting for confirmation"
		return m, m.saveCmd()
	case "r":
		if m.working != "" {
			m.status = "busy, please wait"
			return m, nil
		}
		m.working = "loading"
		return m, m.loadCmd()
	}
	m.refresh()
	return m, nil
}

func (m *Model) move(delta int) error {
	r, ok := m.selected()
	if !ok {
		return nil
	}
	switch {
	case r.pageID == "" && delta < 0:
		return m.session.MoveGroupUp(r.groupID)
	case r.pageID == "":
		return m.session.MoveGroupDown(r.groupID)
	case delta < 0:
		return m.session.MovePageUp(r.groupID, r.pageID)
	default:
		return m.session.MovePageDown(r.groupID, r.pageID)
	}
}

func (m *Model) edit() error {
	r, ok := m.selected()
	if !ok {
		return nil
	}
	var err error
	if r.pageID == "" {
		err = m.session.EditGroup(r.groupID)
	} else {
		err = m.session.EditPage(r.groupID, r.pageID)
	}
	if err != nil {
		return err
	}
	m.form = newForm(m.session.Snapshot())
	return nil
}

func (m Model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// refresh re-reads the session and rebuilds the visible rows, keeping the
// cursor on the same entity when it is still visible.
func (m *Model) refresh() {
	current, hadCurrent := m.selected()
	m.snap = m.session.Snapshot()
	m.rows = visibleRows(m.snap)

	if hadCurrent {
		for i, r := range m.rows {
			if r == current {
				m.cursor = i
				return
			}
		}
		for i, r := range m.rows {
			if r.pageID == "" && r.groupID == current.groupID {
				m.cursor = i
				return
			}
		}
	}
	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
}

func visibleRows(snap session.Snapshot) []row {
	var rows []row
	for _, g := range snap.Tree.Groups() {
		rows = append(rows, row{groupID: g.ID()})
		if !snap.Expanded(g.ID()) {
			continue
		}
		for _, p := range g.Pages() {
			rows = append(rows, row{groupID: g.ID(), pageID: p.ID()})
		}
	}
	return rows
}

// statusFor describes errors the session does not report in its snapshot.
func statusFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrBusy):
		return "busy, please wait"
	case errors.Is(err, session.ErrEditing):
		return "finish the current edit first"
	case errors.Is(err, session.ErrNoChanges):
		return "no changes to save"
	case errors.Is(err, session.ErrNotLoaded):
		return "menu not loaded, press r to retry"
	case errors.Is(err, menu.ErrNotFound):
		return "item no longer exists"
	default:
		return ""
	}
}
