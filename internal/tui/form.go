package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gdp-poc/gdp/application/session"
	"github.com/gdp-poc/gdp/domain/menu"
)

// form edits the draft of the session's current target.
type form struct {
	target session.Target
	fields []menu.Field
	inputs []textinput.Model
	focus  int
}

func newForm(snap session.Snapshot) form {
	f := form{target: snap.Target}
	values := []string{snap.Draft.Name}
	f.fields = []menu.Field{menu.FieldName}
	if snap.Target.IsPage() {
		f.fields = append(f.fields, menu.FieldDashboardID, menu.FieldURL, menu.FieldGenieID)
		values = append(values, snap.Draft.DashboardID, snap.Draft.URL, snap.Draft.GenieID)
	}

	f.inputs = make([]textinput.Model, len(f.fields))
	for i, field := range f.fields {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 48
		in.Placeholder = "unset"
		if field != menu.FieldName {
			in.Placeholder = "empty to clear"
		}
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

func (f form) active() bool { return len(f.inputs) > 0 }

func (f form) draft() session.Draft {
	d := session.Draft{Name: f.inputs[0].Value()}
	if f.target.IsPage() {
		d.DashboardID = f.inputs[1].Value()
		d.URL = f.inputs[2].Value()
		d.GenieID = f.inputs[3].Value()
	}
	return d
}

func (f form) move(delta int) form {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
	return f
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}
