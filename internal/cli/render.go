package cli

import (
	"fmt"

	"github.com/Makepad-fr/todosum/internal/model"
	"github.com/Makepad-fr/todosum/internal/ui"
)

// listed is a task with its 1-based position in the ls ordering.
type listed struct {
	index int
	task  model.Task
}

func renderList(tasks []model.Task, group bool, dateFormat string) string {
	t := ui.Current()
	d, p := model.Stats(tasks)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(tasks),
	)

	all := make([]listed, len(tasks))
	for i, task := range tasks {
		all[i] = listed{index: i + 1, task: task}
	}

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")
	if group {
		lines = append(lines, groupLines(all, dateFormat)...)
	} else {
		lines = append(lines, flatLines(all, dateFormat)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todosum add \"Buy milk\"`"))
	return ui.Panel(lines)
}

func flatLines(items []listed, dateFormat string) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no todos")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		idx := t.Muted.Render(fmt.Sprintf("%2d.", it.index))
		title := ui.Truncate(it.task.Title, 80)
		if it.task.Completed {
			title = t.Done.Render(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s", idx, ui.Box(it.task.Completed), title))
		if desc, ok := it.task.Description.Get(); ok {
			out = append(out, "       "+t.Muted.Render(ui.Truncate(desc, 76)))
		}
		if !it.task.CreatedAt.IsZero() && dateFormat != "" {
			out = append(out, "       "+t.Muted.Render("Created "+it.task.CreatedAt.Local().Format(dateFormat)))
		}
	}
	return out
}

func groupLines(items []listed, dateFormat string) []string {
	t := ui.Current()
	var pend, done []listed
	for _, it := range items {
		if it.task.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render(fmt.Sprintf("Pending (%d)", len(pend))))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend, dateFormat)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render(fmt.Sprintf("Completed (%d)", len(done))))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done, dateFormat)...)
	}
	return lines
}
