package tui

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/todosum/internal/app"
	"github.com/Makepad-fr/todosum/internal/model"
)

// fakeExec answers intents from an in-memory list. Set fail to make every
// mutation report its failure kind.
type fakeExec struct {
	mu      sync.Mutex
	tasks   []model.Task
	intents []app.Intent
	next    int
	fail    bool
}

func (f *fakeExec) Execute(_ context.Context, i app.Intent) app.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intents = append(f.intents, i)

	switch i := i.(type) {
	case app.LoadIntent:
		if f.fail {
			return app.Failed{Err: &app.Error{Kind: app.FetchFailed}}
		}
		return app.Loaded{Tasks: slices.Clone(f.tasks)}
	case app.AddIntent:
		if f.fail {
			return app.Failed{Err: &app.Error{Kind: app.CreateFailed}}
		}
		f.next++
		t := model.Task{ID: fmt.Sprintf("new%d", f.next), Title: i.Title, Description: i.Description,
			CreatedAt: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)}
		f.tasks = append([]model.Task{t}, f.tasks...)
		return app.Added{Task: t}
	case app.UpdateIntent:
		if f.fail {
			return app.Failed{Err: &app.Error{Kind: app.UpdateFailed}}
		}
		for k := range f.tasks {
			if f.tasks[k].ID == i.ID {
				f.tasks[k] = i.Patch.Apply(f.tasks[k])
				t := f.tasks[k]
				return app.Updated{ID: i.ID, Patch: i.Patch, Task: &t}
			}
		}
		return app.Updated{ID: i.ID, Patch: i.Patch}
	case app.DeleteIntent:
		if f.fail {
			return app.Failed{Err: &app.Error{Kind: app.DeleteFailed}}
		}
		f.tasks = slices.DeleteFunc(f.tasks, func(t model.Task) bool { return t.ID == i.ID })
		return app.Deleted{ID: i.ID}
	case app.SummarizeIntent:
		if f.fail {
			return app.Failed{Err: &app.Error{Kind: app.SummarizeFailed}}
		}
		return app.Summarized{Count: len(i.Pending)}
	}
	return nil
}

func (f *fakeExec) seen() []app.Intent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.intents)
}

func seed() []model.Task {
	return []model.Task{
		{ID: "a", Title: "Write report", CreatedAt: time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)},
		{ID: "b", Title: "Water plants", Completed: true, CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
		{ID: "c", Title: "Call mom", Description: model.Some("about sunday"), CreatedAt: time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC)},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and returns the messages it produces. Commands that
// block (timers, cursor blinks) are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		switch msg := msg.(type) {
		case nil, spinner.TickMsg, clearStatusMsg, tea.QuitMsg:
			return nil
		case tea.BatchMsg:
			var out []tea.Msg
			for _, c := range msg {
				out = append(out, collect(c)...)
			}
			return out
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// settle feeds every message produced by cmd back into m until quiet.
func settle(m tea.Model, cmd tea.Cmd) tea.Model {
	queue := collect(cmd)
	for n := 0; len(queue) > 0 && n < 200; n++ {
		msg := queue[0]
		queue = queue[1:]
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, collect(next)...)
	}
	return m
}

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		var cmd tea.Cmd
		m, cmd = m.Update(k)
		m = settle(m, cmd)
	}
	return m
}

func started(t *testing.T, exec *fakeExec) Model {
	t.Helper()
	m := New(context.Background(), exec, Options{Timeout: time.Second})
	out := settle(m, m.Init())
	out, _ = out.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return out.(Model)
}
