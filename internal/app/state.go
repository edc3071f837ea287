package app

import (
	"slices"

	"github.com/Makepad-fr/todosum/internal/model"
)

// State is the session's cached view of the remote task table. It has a
// single writer: every change goes through Begin, Apply or the form toggles.
type State struct {
	tasks []model.Task

	Loading     bool
	Summarizing bool
	FormOpen    bool

	busy int
}

// NewState starts in the loading state, before the first List.
func NewState() *State {
	return &State{Loading: true}
}

// Begin records that intent i has been issued and is waiting for a Result.
func (s *State) Begin(i Intent) {
	s.busy++
	switch i.(type) {
	case LoadIntent:
		s.Loading = true
	case SummarizeIntent:
		s.Summarizing = true
	}
}

// Apply folds one Result into the state. Failures leave the task list as it
// was before the intent was issued.
func (s *State) Apply(r Result) {
	switch r := r.(type) {
	case Loaded:
		s.done()
		s.tasks = slices.Clone(r.Tasks)
		s.Loading = false
	case Added:
		s.done()
		s.tasks = slices.DeleteFunc(s.tasks, func(t model.Task) bool { return t.ID == r.Task.ID })
		s.tasks = slices.Insert(s.tasks, 0, r.Task)
		s.FormOpen = false
	case Updated:
		s.done()
		i := s.index(r.ID)
		if i < 0 {
			return
		}
		if r.Task != nil {
			s.tasks[i] = *r.Task
		} else {
			s.tasks[i] = r.Patch.Apply(s.tasks[i])
		}
	case Deleted:
		s.done()
		s.tasks = slices.DeleteFunc(s.tasks, func(t model.Task) bool { return t.ID == r.ID })
	case Summarized:
		s.done()
		s.Summarizing = false
	case Failed:
		switch r.Err.Kind {
		case FetchFailed:
			s.Loading = false
		case SummarizeFailed, NothingToSummarize:
			s.Summarizing = false
		}
		s.done()
	}
}

func (s *State) OpenForm()  { s.FormOpen = true }
func (s *State) CloseForm() { s.FormOpen = false }

// Busy reports whether any issued intent is still waiting for its Result.
func (s *State) Busy() bool { return s.busy > 0 }

// Tasks returns a copy of the cached list, newest first.
func (s *State) Tasks() []model.Task { return slices.Clone(s.tasks) }

func (s *State) Len() int { return len(s.tasks) }

func (s *State) Find(id string) (model.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

func (s *State) Pending() []model.Task {
	p, _ := model.Partition(s.tasks)
	return p
}

func (s *State) Completed() []model.Task {
	_, c := model.Partition(s.tasks)
	return c
}

// SummarizeIntent captures the pending tasks, or fails with
// NothingToSummarize when there are none.
func (s *State) SummarizeIntent() (SummarizeIntent, error) {
	pending := s.Pending()
	if len(pending) == 0 {
		return SummarizeIntent{}, ErrNothingToSummarize
	}
	return SummarizeIntent{Pending: pending}, nil
}

func (s *State) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func (s *State) done() {
	if s.busy > 0 {
		s.busy--
	}
}
