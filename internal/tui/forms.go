package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/taskboard/internal/form"
)

// field is one labelled input
type field struct {
	name  string
	label string
	input textinput.Model
}

// inputGroup is the set of inputs behind one form id
type inputGroup struct {
	title  string
	fields []field
	focus  int
}

func newField(name, label, placeholder string, limit int) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = ""
	if name == form.FieldPassword {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return field{name: name, label: label, input: ti}
}

func newInputGroups() map[form.ID]*inputGroup {
	return map[form.ID]*inputGroup{
		form.Login: {
			title: "Sign in",
			fields: []field{
				newField(form.FieldEmail, "Email", "you@example.com", 254),
				newField(form.FieldPassword, "Password", "", 128),
			},
		},
		form.Signup: {
			title: "Create account",
			fields: []field{
				newField(form.FieldFirstName, "First name", "", 100),
				newField(form.FieldLastName, "Last name", "", 100),
				newField(form.FieldEmail, "Email", "you@example.com", 254),
				newField(form.FieldPassword, "Password", "", 128),
			},
		},
		form.CreateTask: {
			title: "New task",
			fields: []field{
				newField(form.FieldTitle, "Title", "What needs doing?", 256),
				newField(form.FieldDescription, "Description", "optional", 1024),
				newField(form.FieldDueDate, "Due date", "YYYY-MM-DD, optional", 32),
			},
		},
		form.CreateNotification: {
			title: "New notification",
			fields: []field{
				newField(form.FieldTitle, "Title", "", 256),
				newField(form.FieldMessage, "Message", "", 1024),
				newField(form.FieldType, "Type", "in_app, email or push", 16),
				newField(form.FieldData, "Data", `{"key": "value"}, optional`, 2048),
			},
		},
	}
}

func (g *inputGroup) values() form.Fields {
	out := make(form.Fields, len(g.fields))
	for _, f := range g.fields {
		out[f.name] = f.input.Value()
	}
	return out
}

func (g *inputGroup) reset() {
	for i := range g.fields {
		g.fields[i].input.Reset()
	}
	g.focusOn(0)
}

// focusOn moves the cursor to field i, wrapping around
func (g *inputGroup) focusOn(i int) tea.Cmd {
	n := len(g.fields)
	g.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range g.fields {
		if j == g.focus {
			cmd = g.fields[j].input.Focus()
		} else {
			g.fields[j].input.Blur()
		}
	}
	return cmd
}

func (g *inputGroup) next() tea.Cmd { return g.focusOn(g.focus + 1) }
func (g *inputGroup) prev() tea.Cmd { return g.focusOn(g.focus - 1) }

// last reports whether the focused field is the final one
func (g *inputGroup) last() bool { return g.focus == len(g.fields)-1 }

func (g *inputGroup) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	g.fields[g.focus].input, cmd = g.fields[g.focus].input.Update(msg)
	return cmd
}
