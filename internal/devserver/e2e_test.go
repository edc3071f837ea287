package devserver_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/todosum/internal/app"
	"github.com/Makepad-fr/todosum/internal/devserver"
	"github.com/Makepad-fr/todosum/internal/model"
	"github.com/Makepad-fr/todosum/internal/store/rest"
	"github.com/Makepad-fr/todosum/internal/summary"
)

type notes struct{ ok, failed []string }

func (n *notes) Success(msg string) { n.ok = append(n.ok, msg) }
func (n *notes) Error(msg string)   { n.failed = append(n.failed, msg) }

// The client stack against the dev backend: every operation round-trips.
func TestShellAgainstDevBackend(t *testing.T) {
	quiet := log.New(io.Discard)
	srv, err := devserver.New(devserver.Config{DBPath: ":memory:", Logger: quiet})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client, err := rest.New(rest.Options{BaseURL: ts.URL, APIKey: "anon"})
	if err != nil {
		t.Fatal(err)
	}
	n := &notes{}
	sh := app.NewShell(app.NewController(client, summary.New(client, ""), quiet), n)
	ctx := context.Background()

	if err := sh.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sh.State().Len() != 0 {
		t.Fatal("expected an empty table")
	}

	if err := sh.AddTodo(ctx, "  Write report ", model.Text("  due friday ")); err != nil {
		t.Fatalf("AddTodo: %v", err)
	}
	if err := sh.AddTodo(ctx, "Water plants", model.None[string]()); err != nil {
		t.Fatalf("AddTodo: %v", err)
	}
	tasks := sh.State().Tasks()
	if len(tasks) != 2 || tasks[0].Title != "Water plants" {
		t.Fatalf("tasks = %+v", tasks)
	}
	report := tasks[1]
	if d, _ := report.Description.Get(); report.Title != "Write report" || d != "due friday" {
		t.Fatalf("stored = %+v", report)
	}

	if err := sh.UpdateTodo(ctx, report.ID, model.TogglePatch(report)); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got, _ := sh.State().Find(report.ID); !got.Completed {
		t.Fatal("toggle not applied")
	}

	if err := sh.UpdateTodo(ctx, report.ID, model.EditPatch("Write the report", model.Text(""))); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got, _ := sh.State().Find(report.ID)
	if got.Title != "Write the report" || !got.Completed {
		t.Fatalf("edit result = %+v", got)
	}
	if _, ok := got.Description.Get(); ok {
		t.Fatal("blank description should clear it")
	}

	if err := sh.GenerateSummary(ctx); err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}

	if err := sh.DeleteTodo(ctx, report.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := sh.DeleteTodo(ctx, report.ID); err != nil {
		t.Fatalf("second delete should be treated as done: %v", err)
	}

	// A fresh load agrees with the cached state.
	cached := sh.State().Tasks()
	if err := sh.Load(ctx); err != nil {
		t.Fatal(err)
	}
	fresh := sh.State().Tasks()
	if len(fresh) != 1 || len(cached) != 1 || fresh[0].ID != cached[0].ID {
		t.Fatalf("cached %+v, fresh %+v", cached, fresh)
	}
	if len(n.failed) != 0 {
		t.Fatalf("unexpected failures: %v", n.failed)
	}
}
