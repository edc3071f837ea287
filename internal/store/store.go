// Package store defines the remote task table the client talks to.
// Backends live in subpackages.
package store

import (
	"context"
	"errors"

	"github.com/Makepad-fr/todosum/internal/model"
)

// ErrNotFound is returned when no task matches the given id.
var ErrNotFound = errors.New("task not found")

// Store is the remote task table. It is authoritative; callers only cache.
type Store interface {
	// List returns every task, newest first.
	List(ctx context.Context) ([]model.Task, error)
	// Create inserts a pending task and returns the stored record.
	Create(ctx context.Context, in model.NewTask) (model.Task, error)
	// Update applies the set fields of p. It returns the stored record after
	// the update when the backend echoes it, nil otherwise.
	Update(ctx context.Context, id string, p model.Patch) (*model.Task, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
