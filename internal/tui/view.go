package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/todosum/internal/ui"
)

func (m Model) View() string {
	t := ui.Current()
	tasks := m.state.Tasks()
	done, pending := 0, 0
	for _, task := range tasks {
		if task.Completed {
			done++
		} else {
			pending++
		}
	}

	var sections []string
	sections = append(sections, fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Todo Summary Assistant"),
		t.Success.Render(t.SymDone), done,
		t.Pending.Render(t.SymPending), pending,
		t.Accent.Render("Total"), len(tasks),
	))
	sections = append(sections, t.Muted.Render(ui.ProgressBar(done, len(tasks), clamp(m.width-20, 10, 40))))
	sections = append(sections, m.card("Add New Todo", m.addCard()))
	sections = append(sections, m.card("AI Summary", m.summaryCard(pending)))
	sections = append(sections, m.listView(pending, done))

	if m.status != "" {
		if m.statusErr {
			sections = append(sections, t.Error.Render(t.SymFail+" "+m.status))
		} else {
			sections = append(sections, t.Success.Render(t.SymOK+" "+m.status))
		}
	}
	if m.editingRow() < 0 && !m.state.FormOpen {
		sections = append(sections, m.help.View(m.keys))
	}
	return strings.Join(sections, "\n")
}

func (m Model) card(title, body string) string {
	t := ui.Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Width(clamp(m.width-2, 30, 72)).
		Render(t.Accent.Render(title) + "\n" + body)
}

func (m Model) addCard() string {
	if m.state.FormOpen {
		return m.form.View()
	}
	return ui.Current().Muted.Render("Press a to add a todo.")
}

func (m Model) summaryCard(pending int) string {
	t := ui.Current()
	line := fmt.Sprintf("%d pending todos ready for summary", pending)
	switch {
	case m.state.Summarizing:
		return line + "\n" + m.spinner.View() + " Generating..."
	case pending == 0:
		return line + "\n" + t.Muted.Render("Nothing to summarize yet.")
	}
	return line + "\n" + t.Muted.Render("Press s to summarize and send.")
}

func (m Model) listView(pending, done int) string {
	t := ui.Current()
	if m.state.Loading && len(m.rows) == 0 {
		return m.spinner.View() + " Loading todos..."
	}
	if len(m.rows) == 0 {
		return t.Title.Render("No todos yet") + "\n" + t.Muted.Render("Add your first todo to get started!")
	}

	var b strings.Builder
	if pending > 0 {
		b.WriteString(t.Pending.Render(fmt.Sprintf("Pending Todos (%d)", pending)))
		b.WriteString("\n")
	}
	for i, r := range m.rows {
		if i == pending && done > 0 {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(t.Success.Render(fmt.Sprintf("Completed Todos (%d)", done)))
			b.WriteString("\n")
		}
		b.WriteString(r.View(i == m.cursor, m.opts.DateFormat))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
