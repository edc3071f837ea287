package model

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyTitle is returned when a title is blank after trimming.
var ErrEmptyTitle = errors.New("title cannot be empty")

// Task is the domain model for a todo entry. ID and CreatedAt are
// assigned by the remote store and never change afterwards.
type Task struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description Optional[string] `json:"description,omitzero"`
	Completed   bool             `json:"completed"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NewTask is the input for creating a task.
type NewTask struct {
	Title       string           `json:"title"`
	Description Optional[string] `json:"description,omitzero"`
}

// Normalize trims both fields; a blank description becomes absent.
func (n NewTask) Normalize() NewTask {
	n.Title = strings.TrimSpace(n.Title)
	if d, ok := n.Description.Get(); ok {
		n.Description = Text(d)
	}
	return n
}

func (n NewTask) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Partition splits tasks into pending and completed, keeping input order.
func Partition(tasks []Task) (pending, completed []Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return
}

// Stats counts done and pending tasks.
func Stats(tasks []Task) (done, pending int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
