package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Makepad-fr/todosum/internal/model"
	"github.com/Makepad-fr/todosum/internal/store"
)

var _ store.Store = (*Client)(nil)

const returnRepresentation = "return=representation"

type insertRow struct {
	Title       string                 `json:"title"`
	Description model.Optional[string] `json:"description,omitzero"`
	Completed   bool                   `json:"completed"`
}

func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, c.tablePath(), q, nil, "", &tasks); err != nil {
		return nil, fmt.Errorf("list %s: %w", c.table, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (c *Client) Create(ctx context.Context, in model.NewTask) (model.Task, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}
	rows := []insertRow{{Title: in.Title, Description: in.Description, Completed: false}}

	var out []model.Task
	if err := c.do(ctx, http.MethodPost, c.tablePath(), nil, rows, returnRepresentation, &out); err != nil {
		return model.Task{}, fmt.Errorf("insert into %s: %w", c.table, err)
	}
	if len(out) == 0 {
		return model.Task{}, errors.New("insert returned no rows")
	}
	return out[0], nil
}

// Update patches one row. A success without a body (204, or a proxy that
// drops Prefer) returns a nil echo; an empty representation means no row
// matched.
func (c *Client) Update(ctx context.Context, id string, p model.Patch) (*model.Task, error) {
	if p.IsEmpty() {
		return nil, errors.New("update: nothing to change")
	}
	var out []model.Task
	if err := c.do(ctx, http.MethodPatch, c.tablePath(), byID(id), p, returnRepresentation, &out); err != nil {
		return nil, fmt.Errorf("update %s %s: %w", c.table, id, err)
	}
	if out == nil {
		return nil, nil
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return &out[0], nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	var out []model.Task
	if err := c.do(ctx, http.MethodDelete, c.tablePath(), byID(id), nil, returnRepresentation, &out); err != nil {
		return fmt.Errorf("delete %s %s: %w", c.table, id, err)
	}
	if out != nil && len(out) == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c *Client) tablePath() string { return restPrefix + c.table }

func byID(id string) url.Values {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return q
}
