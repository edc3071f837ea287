package app

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Makepad-fr/todosum/internal/model"
)

func seedTasks() []model.Task {
	return []model.Task{
		{ID: "1", Title: "Buy milk", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Title: "Pay bills", Completed: true, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func newTestShell(t *testing.T, st *memStore, sum *fakeSummarizer) (*Shell, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	var s Summarizer
	if sum != nil {
		s = sum
	}
	sh := NewShell(NewController(st, s, quietLogger()), n)
	return sh, n
}

func TestLoadPartitions(t *testing.T) {
	t.Parallel()

	sh, n := newTestShell(t, newMemStore(seedTasks()...), nil)
	if !sh.State().Loading {
		t.Fatal("expected loading before first load")
	}
	if err := sh.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st := sh.State()
	if st.Loading || st.Busy() {
		t.Errorf("loading=%v busy=%v after load", st.Loading, st.Busy())
	}
	if p := st.Pending(); len(p) != 1 || p[0].ID != "1" {
		t.Errorf("pending = %+v", p)
	}
	if c := st.Completed(); len(c) != 1 || c[0].ID != "2" {
		t.Errorf("completed = %+v", c)
	}
	if len(n.successes)+len(n.errors) != 0 {
		t.Errorf("load should not notify on success, got %+v", n)
	}
}

func TestLoadFailureKeepsPriorState(t *testing.T) {
	t.Parallel()

	st := newMemStore(seedTasks()...)
	sh, n := newTestShell(t, st, nil)
	if err := sh.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := sh.State().Tasks()

	st.ListErr = errBackend
	err := sh.Load(context.Background())
	if !errors.Is(err, ErrFetchFailed) || !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	if !reflect.DeepEqual(sh.State().Tasks(), before) {
		t.Error("tasks changed after failed fetch")
	}
	if sh.State().Loading {
		t.Error("loading flag not cleared")
	}
	if len(n.errors) != 1 || n.errors[0] != "Failed to fetch todos" {
		t.Errorf("errors = %v", n.errors)
	}
}

func TestAddTodoPrependsAndClosesForm(t *testing.T) {
	t.Parallel()

	st := newMemStore(seedTasks()...)
	sh, n := newTestShell(t, st, nil)
	ctx := context.Background()
	if err := sh.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	sh.State().OpenForm()

	if err := sh.AddTodo(ctx, "  Write report ", model.Text("")); err != nil {
		t.Fatalf("AddTodo: %v", err)
	}
	tasks := sh.State().Tasks()
	if len(tasks) != 3 || tasks[0].Title != "Write report" {
		t.Fatalf("tasks = %+v", tasks)
	}
	if tasks[0].Completed || !tasks[0].Description.IsZero() {
		t.Errorf("new task = %+v", tasks[0])
	}
	if sh.State().FormOpen {
		t.Error("form should be dismissed after add")
	}
	if len(n.successes) != 1 {
		t.Errorf("successes = %v", n.successes)
	}

	// The local cache agrees with a fresh listing.
	if err := sh.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	var matches int
	for _, task := range sh.State().Tasks() {
		if task.Title == "Write report" && !task.Completed {
			matches++
		}
	}
	if matches != 1 {
		t.Errorf("found %d records titled Write report", matches)
	}
}

func TestAddTodoFailureLeavesList(t *testing.T) {
	t.Parallel()

	st := newMemStore(seedTasks()...)
	sh, n := newTestShell(t, st, nil)
	ctx := context.Background()
	_ = sh.Load(ctx)
	sh.State().OpenForm()
	before := sh.State().Tasks()

	st.CreateErr = errBackend
	if err := sh.AddTodo(ctx, "Write report", model.None[string]()); !errors.Is(err, ErrCreateFailed) {
		t.Fatalf("err = %v", err)
	}
	if !reflect.DeepEqual(sh.State().Tasks(), before) {
		t.Error("list changed")
	}
	if !sh.State().FormOpen {
		t.Error("form closed on failure")
	}
	if len(n.errors) != 1 || n.errors[0] != "Failed to add todo" {
		t.Errorf("errors = %v", n.errors)
	}
}

func TestUpdateTodoToggleTwice(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, newMemStore(seedTasks()...), nil)
	ctx := context.Background()
	_ = sh.Load(ctx)
	orig, _ := sh.State().Find("1")

	for range 2 {
		cur, _ := sh.State().Find("1")
		if err := sh.UpdateTodo(ctx, "1", model.TogglePatch(cur)); err != nil {
			t.Fatalf("UpdateTodo: %v", err)
		}
	}
	got, _ := sh.State().Find("1")
	if got != orig {
		t.Errorf("after double toggle %+v, want %+v", got, orig)
	}
}

func TestUpdateTodoFailureIsByteIdentical(t *testing.T) {
	t.Parallel()

	st := newMemStore(seedTasks()...)
	sh, _ := newTestShell(t, st, nil)
	ctx := context.Background()
	_ = sh.Load(ctx)
	before, _ := sh.State().Find("1")

	st.UpdateErr = errBackend
	title := "changed"
	err := sh.UpdateTodo(ctx, "1", model.Patch{Title: &title})
	if !errors.Is(err, ErrUpdateFailed) {
		t.Fatalf("err = %v", err)
	}
	after, _ := sh.State().Find("1")
	if !reflect.DeepEqual(before, after) {
		t.Errorf("cache changed: %+v -> %+v", before, after)
	}
}

func TestUpdateTodoPrefersServerEcho(t *testing.T) {
	t.Parallel()

	st := newMemStore(seedTasks()...)
	sh, _ := newTestShell(t, st, nil)
	ctx := context.Background()
	_ = sh.Load(ctx)

	// Simulate server-side normalization the client did not ask for.
	st.tasks[0].Title = "BUY MILK"
	done := true
	if err := sh.UpdateTodo(ctx, "1", model.Patch{Completed: &done}); err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	got, _ := sh.State().Find("1")
	if got.Title != "BUY MILK" || !got.Completed {
		t.Errorf("got %+v, want server record", got)
	}
}

func TestUpdateTodoMergesWithoutEcho(t *testing.T) {
	t.Parallel()

	st := newMemStore(seedTasks()...)
	st.NoEcho = true
	sh, _ := newTestShell(t, st, nil)
	ctx := context.Background()
	_ = sh.Load(ctx)

	if err := sh.UpdateTodo(ctx, "1", model.EditPatch("Buy oat milk", model.Some("2 litres"))); err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	got, _ := sh.State().Find("1")
	if d, _ := got.Description.Get(); got.Title != "Buy oat milk" || d != "2 litres" {
		t.Errorf("got %+v", got)
	}
}

func TestDeleteTodoRemovesFromPartitions(t *testing.T) {
	t.Parallel()

	sh, _ := newTestShell(t, newMemStore(seedTasks()...), nil)
	ctx := context.Background()
	_ = sh.Load(ctx)

	for _, id := range []string{"1", "2"} {
		if err := sh.DeleteTodo(ctx, id); err != nil {
			t.Fatalf("DeleteTodo(%s): %v", id, err)
		}
		for _, task := range append(sh.State().Pending(), sh.State().Completed()...) {
			if task.ID == id {
				t.Errorf("task %s still visible", id)
			}
		}
	}
}

func TestDeleteMissingTaskIsSuccess(t *testing.T) {
	t.Parallel()

	st := newMemStore(seedTasks()...)
	sh, _ := newTestShell(t, st, nil)
	ctx := context.Background()
	_ = sh.Load(ctx)
	st.tasks = st.tasks[1:] // removed elsewhere

	if err := sh.DeleteTodo(ctx, "1"); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	if _, ok := sh.State().Find("1"); ok {
		t.Error("task still cached")
	}
}

func TestDeleteFailureLeavesList(t *testing.T) {
	t.Parallel()

	st := newMemStore(seedTasks()...)
	sh, n := newTestShell(t, st, nil)
	ctx := context.Background()
	_ = sh.Load(ctx)
	st.DeleteErr = errBackend

	if err := sh.DeleteTodo(ctx, "1"); !errors.Is(err, ErrDeleteFailed) {
		t.Fatalf("err = %v", err)
	}
	if sh.State().Len() != 2 {
		t.Errorf("len = %d", sh.State().Len())
	}
	if len(n.errors) != 1 {
		t.Errorf("errors = %v", n.errors)
	}
}

func TestGenerateSummarySendsPendingOnly(t *testing.T) {
	t.Parallel()

	sum := &fakeSummarizer{}
	sh, n := newTestShell(t, newMemStore(seedTasks()...), sum)
	ctx := context.Background()
	_ = sh.Load(ctx)

	if err := sh.GenerateSummary(ctx); err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if sum.calls != 1 || len(sum.got[0]) != 1 || sum.got[0][0].ID != "1" {
		t.Errorf("summarizer got %+v", sum.got)
	}
	if sh.State().Summarizing {
		t.Error("summarizing flag not cleared")
	}
	if len(n.successes) != 1 {
		t.Errorf("successes = %v", n.successes)
	}
}

func TestGenerateSummaryWithNothingPending(t *testing.T) {
	t.Parallel()

	cases := map[string][]model.Task{
		"empty list":    nil,
		"all completed": {{ID: "2", Title: "Pay bills", Completed: true}},
	}
	for name, tasks := range cases {
		t.Run(name, func(t *testing.T) {
			sum := &fakeSummarizer{}
			sh, n := newTestShell(t, newMemStore(tasks...), sum)
			ctx := context.Background()
			_ = sh.Load(ctx)

			err := sh.GenerateSummary(ctx)
			if !errors.Is(err, ErrNothingToSummarize) {
				t.Fatalf("err = %v", err)
			}
			if sum.calls != 0 {
				t.Errorf("summarizer called %d times", sum.calls)
			}
			if sh.State().Summarizing || sh.State().Busy() {
				t.Error("state left busy")
			}
			if len(n.errors) != 1 || n.errors[0] != "No pending todos to summarize" {
				t.Errorf("errors = %v", n.errors)
			}
		})
	}
}

func TestGenerateSummaryFailure(t *testing.T) {
	t.Parallel()

	sum := &fakeSummarizer{err: errBackend}
	sh, n := newTestShell(t, newMemStore(seedTasks()...), sum)
	ctx := context.Background()
	_ = sh.Load(ctx)

	if err := sh.GenerateSummary(ctx); !errors.Is(err, ErrSummarizeFailed) {
		t.Fatalf("err = %v", err)
	}
	if sh.State().Summarizing {
		t.Error("summarizing flag not cleared")
	}
	if len(n.errors) != 1 || n.errors[0] != "Failed to generate summary" {
		t.Errorf("errors = %v", n.errors)
	}
}
