package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/todosum/internal/app"
	"github.com/Makepad-fr/todosum/internal/model"
	"github.com/Makepad-fr/todosum/internal/ui"
)

// Row renders one task and owns its inline edit buffers. It asks for
// changes with IntentMsg and never mutates the task itself.
type Row struct {
	task    model.Task
	editing bool

	title textinput.Model
	desc  textarea.Model
	focus int
	keys  KeyMap
	help  help.Model
}

func NewRow(t model.Task, keys KeyMap) Row {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Todo title"
	ti.CharLimit = 200

	ta := textarea.New()
	ta.Placeholder = "Description (optional)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 1000
	ta.SetHeight(2)
	ta.SetWidth(50)

	return Row{task: t, title: ti, desc: ta, keys: keys, help: help.New()}
}

func (r Row) Task() model.Task { return r.task }
func (r Row) ID() string        { return r.task.ID }
func (r Row) Editing() bool     { return r.editing }

// SetTask refreshes the row after the shell reconciled its list. Edit
// buffers in progress are kept.
func (r Row) SetTask(t model.Task) Row {
	r.task = t
	return r
}

func (r Row) SetWidth(w int) Row {
	w = clamp(w-8, 20, 60)
	r.title.Width = w
	r.desc.SetWidth(w)
	return r
}

// StartEdit switches to editing, pre-filled from the current task.
func (r Row) StartEdit() (Row, tea.Cmd) {
	r.editing = true
	r.fill()
	r.focus = fieldTitle
	r.desc.Blur()
	r.title.CursorEnd()
	cmd := r.title.Focus()
	return r, cmd
}

// Cancel drops the edit buffers and goes back to viewing.
func (r Row) Cancel() Row {
	r.editing = false
	r.fill()
	r.title.Blur()
	r.desc.Blur()
	return r
}

// Save emits the edit and goes back to viewing. With a blank title it does
// nothing and stays in editing.
func (r Row) Save() (Row, tea.Cmd) {
	title := strings.TrimSpace(r.title.Value())
	if !r.editing || title == "" {
		return r, nil
	}
	patch := model.EditPatch(title, model.Text(r.desc.Value()))
	r.editing = false
	r.title.Blur()
	r.desc.Blur()
	return r, emit(IntentMsg{Intent: app.UpdateIntent{ID: r.task.ID, Patch: patch}})
}

// Toggle asks to flip completion. It works in both states.
func (r Row) Toggle() tea.Cmd {
	return emit(IntentMsg{Intent: app.UpdateIntent{ID: r.task.ID, Patch: model.TogglePatch(r.task)}})
}

// Delete asks to remove the task; nil while editing.
func (r Row) Delete() tea.Cmd {
	if r.editing {
		return nil
	}
	return emit(IntentMsg{Intent: app.DeleteIntent{ID: r.task.ID}})
}

// Update handles keys while editing. Viewing rows are driven by the shell.
func (r Row) Update(msg tea.Msg) (Row, tea.Cmd) {
	if !r.editing {
		return r, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, r.keys.Cancel):
			return r.Cancel(), nil
		case key.Matches(k, r.keys.ToggleInEdit):
			return r, r.Toggle()
		case key.Matches(k, r.keys.NextField):
			if r.focus == fieldTitle {
				r.focus = fieldDescription
				r.title.Blur()
				cmd := r.desc.Focus()
				return r, cmd
			}
			r.focus = fieldTitle
			r.desc.Blur()
			cmd := r.title.Focus()
			return r, cmd
		case key.Matches(k, r.keys.Save),
			key.Matches(k, r.keys.Submit) && r.focus == fieldTitle:
			return r.Save()
		}
	}

	var cmd tea.Cmd
	if r.focus == fieldTitle {
		r.title, cmd = r.title.Update(msg)
	} else {
		r.desc, cmd = r.desc.Update(msg)
	}
	return r, cmd
}

func (r *Row) fill() {
	r.title.SetValue(r.task.Title)
	r.desc.SetValue(r.task.Description.OrElse(""))
}

func (r Row) View(selected bool, dateFormat string) string {
	t := ui.Current()
	prefix := "  "
	if selected {
		prefix = t.Selected.Render(">") + " "
	}
	indent := "    "

	var b strings.Builder
	b.WriteString(prefix + ui.Box(r.task.Completed) + " ")
	if r.editing {
		b.WriteString(t.Accent.Render("Editing"))
		b.WriteString("\n" + indentLines(r.title.View(), indent))
		b.WriteString("\n" + indentLines(r.desc.View(), indent))
		if strings.TrimSpace(r.title.Value()) == "" {
			b.WriteString("\n" + indent + t.Error.Render("Title cannot be empty"))
		}
		b.WriteString("\n" + indent + r.help.View(editHelp{keys: r.keys, toggle: true}))
		return b.String()
	}

	text, sub := plainText, t.Muted
	if r.task.Completed {
		text, sub = t.Done.Render, t.Done
	}
	b.WriteString(text(r.task.Title))
	if d, ok := r.task.Description.Get(); ok {
		b.WriteString("\n" + indent + sub.Render(d))
	}
	if !r.task.CreatedAt.IsZero() {
		b.WriteString("\n" + indent + t.Muted.Render("Created "+r.task.CreatedAt.Local().Format(dateFormat)))
	}
	return b.String()
}

func plainText(strs ...string) string { return strings.Join(strs, " ") }

func indentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = indent + l
	}
	return strings.Join(lines, "\n")
}
