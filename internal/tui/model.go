// Package tui is the interactive front end: one bubbletea program that
// renders the cached task list and turns keystrokes into intents.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/todosum/internal/app"
	"github.com/Makepad-fr/todosum/internal/model"
)

const statusTTL = 4 * time.Second

// Executor runs one intent against the remote services.
type Executor interface {
	Execute(ctx context.Context, i app.Intent) app.Result
}

type Options struct {
	DateFormat string
	// Timeout bounds every remote call.
	Timeout time.Duration
}

// Model is the application shell. Update is the only writer of state;
// remote calls run inside commands and come back as resultMsg.
type Model struct {
	ctx   context.Context
	exec  Executor
	state *app.State
	opts  Options

	rows   []Row
	cursor int
	form   Form

	spinner spinner.Model
	help    help.Model
	keys    KeyMap

	status    string
	statusErr bool
	statusSeq int

	width, height int
}

func New(ctx context.Context, exec Executor, opts Options) Model {
	if opts.DateFormat == "" {
		opts.DateFormat = "Jan 2, 2006"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	keys := DefaultKeyMap()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:     ctx,
		exec:    exec,
		state:   app.NewState(),
		opts:    opts,
		form:    NewForm(keys),
		spinner: sp,
		help:    help.New(),
		keys:    keys,
		width:   80,
		height:  24,
	}
}

// State exposes the cached state for inspection.
func (m Model) State() *app.State { return m.state }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.dispatch(app.LoadIntent{}))
}

// dispatch marks i as issued and returns the command that executes it.
func (m Model) dispatch(i app.Intent) tea.Cmd {
	m.state.Begin(i)
	ctx, exec, timeout := m.ctx, m.exec, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return resultMsg{result: exec.Execute(ctx, i)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.form = m.form.SetWidth(msg.Width)
		for i := range m.rows {
			m.rows[i] = m.rows[i].SetWidth(msg.Width)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		m.state.Apply(msg.result)
		if !m.state.FormOpen {
			m.form = m.form.Blur()
		}
		m.syncRows()
		text, isErr := app.Notice(msg.result)
		return m, m.setStatus(text, isErr)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status, m.statusErr = "", false
		}
		return m, nil

	case IntentMsg:
		return m, m.dispatch(msg.Intent)

	case SubmitMsg:
		return m, m.dispatch(app.AddIntent{Title: msg.Title, Description: msg.Description})

	case CancelMsg:
		m.state.CloseForm()
		m.form = m.form.Blur()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.state.FormOpen {
		m.form, cmd = m.form.Update(k)
		return m, cmd
	}
	if i := m.editingRow(); i >= 0 {
		m.rows[i], cmd = m.rows[i].Update(k)
		return m, cmd
	}

	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(k, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(k, m.keys.Add):
		m.state.OpenForm()
		m.form, cmd = m.form.Focus()
		return m, cmd
	case key.Matches(k, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(k, m.keys.Reload):
		if !m.state.Loading {
			return m, m.dispatch(app.LoadIntent{})
		}
	case key.Matches(k, m.keys.Summarize):
		if m.state.Summarizing {
			return m, nil
		}
		intent, err := m.state.SummarizeIntent()
		if err != nil {
			return m, m.setStatus(app.NothingToSummarize.Message(), true)
		}
		return m, m.dispatch(intent)
	}

	if len(m.rows) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Edit):
		m.rows[m.cursor], cmd = m.rows[m.cursor].StartEdit()
	case key.Matches(k, m.keys.Toggle):
		cmd = m.rows[m.cursor].Toggle()
	case key.Matches(k, m.keys.Delete):
		cmd = m.rows[m.cursor].Delete()
	}
	return m, cmd
}

func (m Model) editingRow() int {
	for i, r := range m.rows {
		if r.Editing() {
			return i
		}
	}
	return -1
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	if text == "" {
		return nil
	}
	m.statusSeq++
	m.status, m.statusErr = text, isErr
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// syncRows rebuilds the rows from state, pending first, keeping edit
// buffers and the cursor on the same task where it still exists.
func (m *Model) syncRows() {
	var selected string
	if m.cursor < len(m.rows) {
		selected = m.rows[m.cursor].ID()
	}
	existing := make(map[string]Row, len(m.rows))
	for _, r := range m.rows {
		existing[r.ID()] = r
	}

	pending, completed := model.Partition(m.state.Tasks())
	rows := make([]Row, 0, len(pending)+len(completed))
	for _, t := range append(pending, completed...) {
		r, ok := existing[t.ID]
		if ok {
			r = r.SetTask(t)
		} else {
			r = NewRow(t, m.keys).SetWidth(m.width)
		}
		rows = append(rows, r)
	}
	m.rows = rows

	m.cursor = clamp(m.cursor, 0, max(len(rows)-1, 0))
	for i, r := range rows {
		if r.ID() == selected {
			m.cursor = i
			break
		}
	}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, exec Executor, opts Options) error {
	p := tea.NewProgram(New(ctx, exec, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
