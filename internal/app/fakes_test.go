package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/todosum/internal/model"
	"github.com/Makepad-fr/todosum/internal/store"
	"github.com/Makepad-fr/todosum/internal/summary"
)

var errBackend = errors.New("backend unavailable")

// memStore is an in-memory store.Store. Set the *Err fields to force failures.
type memStore struct {
	tasks []model.Task
	next  int
	clock time.Time

	ListErr, CreateErr, UpdateErr, DeleteErr error
	NoEcho                                   bool

	calls int
}

func newMemStore(tasks ...model.Task) *memStore {
	return &memStore{tasks: tasks, clock: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memStore) List(context.Context) ([]model.Task, error) {
	m.calls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := slices.Clone(m.tasks)
	slices.SortStableFunc(out, func(a, b model.Task) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *memStore) Create(_ context.Context, in model.NewTask) (model.Task, error) {
	m.calls++
	if m.CreateErr != nil {
		return model.Task{}, m.CreateErr
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}
	m.next++
	m.clock = m.clock.Add(time.Minute)
	t := model.Task{ID: fmt.Sprintf("t%d", m.next), Title: in.Title, Description: in.Description, CreatedAt: m.clock}
	m.tasks = append(m.tasks, t)
	return t, nil
}

func (m *memStore) Update(_ context.Context, id string, p model.Patch) (*model.Task, error) {
	m.calls++
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i] = p.Apply(m.tasks[i])
			if m.NoEcho {
				return nil, nil
			}
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.calls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	n := len(m.tasks)
	m.tasks = slices.DeleteFunc(m.tasks, func(t model.Task) bool { return t.ID == id })
	if len(m.tasks) == n {
		return store.ErrNotFound
	}
	return nil
}

func (m *memStore) Close() error { return nil }

type fakeSummarizer struct {
	got   [][]model.Task
	err   error
	calls int
}

func (f *fakeSummarizer) Summarize(_ context.Context, pending []model.Task) (summary.Response, error) {
	f.calls++
	f.got = append(f.got, pending)
	if f.err != nil {
		return summary.Response{}, f.err
	}
	return summary.Response{Message: "delivered"}, nil
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

func quietLogger() *log.Logger { return log.New(io.Discard) }
