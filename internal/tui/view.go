package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/gdp-poc/gdp/application/session"
	"github.com/gdp-poc/gdp/domain/menu"
)

const (
	nameWidth = 26
	helpList  = "↑/↓ select  enter fold  J/K move  e edit  s save  r reload  q quit"
	helpForm  = "tab next field  enter confirm  esc cancel"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch m.snap.State {
	case session.StateLoading:
		b.WriteString(styleDim.Render("loading menu..."))
		b.WriteString("\n")
	case session.StateError:
		b.WriteString(styleError.Render(m.snap.Message))
		b.WriteString("\n")
		b.WriteString(styleDim.Render("press r to retry, q to quit"))
		b.WriteString("\n")
		return b.String()
	default:
		b.WriteString(m.tree())
	}

	if m.snap.State == session.StateEditing && m.form.active() {
		b.WriteString("\n")
		b.WriteString(m.formView())
		b.WriteString("\n")
	}

	if m.pending != nil {
		b.WriteString("\n")
		b.WriteString(stylePrompt.Render(m.pending.prompt + " [y/n]"))
		b.WriteString("\n")
	}

	b.WriteString(m.messages())
	b.WriteString("\n")
	if m.snap.State == session.StateEditing {
		b.WriteString(styleDim.Render(helpForm))
	} else {
		b.WriteString(styleDim.Render(helpList))
	}
	return b.String()
}

func (m Model) header() string {
	title := styleTitle.Render("Menu Management")
	state := styleDim.Render("[" + m.snap.State.String() + "]")
	parts := []string{title, state}
	if m.working != "" {
		parts = append(parts, styleDim.Render(m.working+"..."))
	}
	if m.snap.HasChanges {
		parts = append(parts, styleDirty.Render("● unsaved changes"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) tree() string {
	if len(m.rows) == 0 {
		return styleDim.Render("no menu groups") + "\n"
	}

	var b strings.Builder
	for i, r := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = styleSelected.Render("▸ ")
		}
		b.WriteString(cursor)
		b.WriteString(m.rowView(r, i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) rowView(r row, selected bool) string {
	g, _ := m.snap.Tree.Group(r.groupID)
	editing := m.snap.Editing(session.Target{GroupID: r.groupID, PageID: r.pageID})

	if r.pageID == "" {
		fold := "▸"
		if m.snap.Expanded(g.ID()) {
			fold = "▾"
		}
		name := fold + " " + fit(g.Name(), nameWidth)
		style := styleGroup
		if selected || editing {
			style = styleSelected
		}
		return style.Render(name) + styleDim.Render(fmt.Sprintf("  #%d  %d pages", g.Order(), g.Len()))
	}

	p, _ := g.Page(r.pageID)
	style := stylePage
	if selected || editing {
		style = styleSelected
	}
	return "    " + style.Render(fit(p.Name(), nameWidth-2)) +
		styleDim.Render(fmt.Sprintf("  #%d  ", p.Order())) +
		styleMode.Render(runewidth.FillRight(p.Mode().String(), 9)) +
		styleDim.Render(m.detail(p))
}

// detail returns the field that drives the page's mode, truncated to the
// space left on the line.
func (m Model) detail(p menu.Page) string {
	var s string
	switch mode := p.Mode().(type) {
	case menu.Embedded:
		s = mode.DashboardID
	case menu.Redirect:
		s = mode.URL
	}
	room := m.width - nameWidth - 24
	if room < 8 {
		return ""
	}
	return runewidth.Truncate(s, room, "…")
}

func (m Model) formView() string {
	title := "Edit group"
	if m.form.target.IsPage() {
		title = "Edit page"
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(title))
	b.WriteString("\n")
	for i, in := range m.form.inputs {
		b.WriteString(styleLabel.Render(m.form.fields[i].Label()))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return styleForm.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) messages() string {
	var b strings.Builder
	for _, v := range m.snap.Violations {
		b.WriteString(styleError.Render("✗ " + v.String()))
		b.WriteString("\n")
	}
	if m.snap.Message != "" && (len(m.snap.Violations) == 0 || m.snap.Message != m.snap.Violations[0].Message) {
		b.WriteString(styleError.Render(m.snap.Message))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(styleError.Render(m.status))
		b.WriteString("\n")
	}
	if m.snap.Notice != "" {
		b.WriteString(styleNotice.Render(m.snap.Notice))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return ""
	}
	return "\n" + b.String()
}

// fit truncates s to width display cells and pads it to exactly width.
func fit(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
