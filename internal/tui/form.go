package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/todosum/internal/model"
	"github.com/Makepad-fr/todosum/internal/ui"
)

const (
	fieldTitle = iota
	fieldDescription
)

// Form collects a new task. It never talks to the backend: a valid submit
// becomes a SubmitMsg and the fields are cleared.
type Form struct {
	title textinput.Model
	desc  textarea.Model
	focus int
	keys  KeyMap
	help  help.Model
}

func NewForm(keys KeyMap) Form {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "Description (optional)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 1000
	ta.SetHeight(2)
	ta.SetWidth(50)

	return Form{title: ti, desc: ta, keys: keys, help: help.New()}
}

// Focus puts the cursor in the title field.
func (f Form) Focus() (Form, tea.Cmd) {
	f.focus = fieldTitle
	f.desc.Blur()
	cmd := f.title.Focus()
	return f, cmd
}

func (f Form) Blur() Form {
	f.title.Blur()
	f.desc.Blur()
	return f
}

// CanSubmit is false while the trimmed title is empty.
func (f Form) CanSubmit() bool {
	return strings.TrimSpace(f.title.Value()) != ""
}

func (f Form) SetWidth(w int) Form {
	w = clamp(w-6, 20, 60)
	f.title.Width = w
	f.desc.SetWidth(w)
	return f
}

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, f.keys.Cancel):
			return f, emit(CancelMsg{})
		case key.Matches(k, f.keys.NextField):
			return f.switchField()
		case key.Matches(k, f.keys.Save),
			key.Matches(k, f.keys.Submit) && f.focus == fieldTitle:
			return f.submit()
		}
	}

	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.desc, cmd = f.desc.Update(msg)
	}
	return f, cmd
}

func (f Form) submit() (Form, tea.Cmd) {
	if !f.CanSubmit() {
		return f, nil
	}
	out := SubmitMsg{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: model.Text(f.desc.Value()),
	}
	f.title.SetValue("")
	f.desc.Reset()
	f, focus := f.Focus()
	return f, tea.Batch(focus, emit(out))
}

func (f Form) switchField() (Form, tea.Cmd) {
	if f.focus == fieldTitle {
		f.focus = fieldDescription
		f.title.Blur()
		cmd := f.desc.Focus()
		return f, cmd
	}
	return f.Focus()
}

func (f Form) View() string {
	t := ui.Current()
	var b strings.Builder
	b.WriteString(f.title.View())
	b.WriteString("\n")
	b.WriteString(f.desc.View())
	b.WriteString("\n")
	if !f.CanSubmit() {
		b.WriteString(t.Muted.Render("A title is required to add a todo."))
		b.WriteString("\n")
	}
	b.WriteString(f.help.View(editHelp{keys: f.keys}))
	return b.String()
}
