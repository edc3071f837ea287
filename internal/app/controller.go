package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/todosum/internal/model"
	"github.com/Makepad-fr/todosum/internal/store"
	"github.com/Makepad-fr/todosum/internal/summary"
)

// Summarizer hands pending tasks to the remote summarization function.
type Summarizer interface {
	Summarize(ctx context.Context, pending []model.Task) (summary.Response, error)
}

// Controller interprets intents against the store and the summarizer. It
// holds no task state, so Execute is safe to run off the UI goroutine.
type Controller struct {
	store      store.Store
	summarizer Summarizer
	log        *log.Logger
}

func NewController(s store.Store, sum Summarizer, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{store: s, summarizer: sum, log: logger}
}

// Execute performs the remote call behind i and reports its outcome.
func (c *Controller) Execute(ctx context.Context, i Intent) Result {
	switch i := i.(type) {
	case LoadIntent:
		tasks, err := c.store.List(ctx)
		if err != nil {
			return c.failed(FetchFailed, err)
		}
		return Loaded{Tasks: tasks}

	case AddIntent:
		task, err := c.store.Create(ctx, model.NewTask{Title: i.Title, Description: i.Description})
		if err != nil {
			return c.failed(CreateFailed, err)
		}
		c.log.Debug("task created", "id", task.ID)
		return Added{Task: task}

	case UpdateIntent:
		echo, err := c.store.Update(ctx, i.ID, i.Patch)
		if err != nil {
			return c.failed(UpdateFailed, fmt.Errorf("task %s: %w", i.ID, err))
		}
		return Updated{ID: i.ID, Patch: i.Patch, Task: echo}

	case DeleteIntent:
		err := c.store.Delete(ctx, i.ID)
		if errors.Is(err, store.ErrNotFound) {
			c.log.Warn("delete of missing task treated as done", "id", i.ID)
			err = nil
		}
		if err != nil {
			return c.failed(DeleteFailed, fmt.Errorf("task %s: %w", i.ID, err))
		}
		return Deleted{ID: i.ID}

	case SummarizeIntent:
		if len(i.Pending) == 0 {
			return Failed{Err: ErrNothingToSummarize}
		}
		if c.summarizer == nil {
			return c.failed(SummarizeFailed, errors.New("summarizer not configured"))
		}
		resp, err := c.summarizer.Summarize(ctx, i.Pending)
		if err != nil {
			return c.failed(SummarizeFailed, err)
		}
		c.log.Info("summary requested", "tasks", len(i.Pending), "message", resp.Message)
		return Summarized{Count: len(i.Pending), Message: resp.Message}
	}
	return c.failed(0, fmt.Errorf("unknown intent %T", i))
}

func (c *Controller) failed(k Kind, err error) Failed {
	c.log.Error(k.Message(), "kind", k, "err", err)
	return Failed{Err: fail(k, err)}
}
