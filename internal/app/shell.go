package app

import (
	"context"

	"github.com/Makepad-fr/todosum/internal/model"
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Shell drives State and Controller synchronously, one intent at a time.
// The CLI uses it directly; the TUI runs the same pieces through tea.Cmds.
type Shell struct {
	ctrl   *Controller
	state  *State
	notify Notifier
}

func NewShell(ctrl *Controller, n Notifier) *Shell {
	return &Shell{ctrl: ctrl, state: NewState(), notify: n}
}

func (s *Shell) State() *State { return s.state }

// Load fetches the task list. On failure the previous list is kept.
func (s *Shell) Load(ctx context.Context) error {
	return s.dispatch(ctx, LoadIntent{})
}

func (s *Shell) AddTodo(ctx context.Context, title string, description model.Optional[string]) error {
	return s.dispatch(ctx, AddIntent{Title: title, Description: description})
}

func (s *Shell) UpdateTodo(ctx context.Context, id string, p model.Patch) error {
	return s.dispatch(ctx, UpdateIntent{ID: id, Patch: p})
}

func (s *Shell) DeleteTodo(ctx context.Context, id string) error {
	return s.dispatch(ctx, DeleteIntent{ID: id})
}

// GenerateSummary sends the pending tasks to the summarization function.
// With nothing pending it notifies and returns without a remote call.
func (s *Shell) GenerateSummary(ctx context.Context) error {
	intent, err := s.state.SummarizeIntent()
	if err != nil {
		s.publish(Failed{Err: ErrNothingToSummarize})
		return err
	}
	return s.dispatch(ctx, intent)
}

func (s *Shell) dispatch(ctx context.Context, i Intent) error {
	s.state.Begin(i)
	r := s.ctrl.Execute(ctx, i)
	s.state.Apply(r)
	s.publish(r)
	if f, ok := r.(Failed); ok {
		return f.Err
	}
	return nil
}

func (s *Shell) publish(r Result) {
	if s.notify == nil {
		return
	}
	msg, isErr := Notice(r)
	switch {
	case msg == "":
	case isErr:
		s.notify.Error(msg)
	default:
		s.notify.Success(msg)
	}
}
