// Package summary asks the remote summarization function to digest the
// pending tasks and deliver the result to the team channel.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Makepad-fr/todosum/internal/model"
)

// DefaultFunction is the name the function is deployed under.
const DefaultFunction = "summarize-todos"

// Invoker calls a named remote function with a JSON body. When out is a
// *[]byte it receives the raw response body.
type Invoker interface {
	Invoke(ctx context.Context, function string, body, out any) error
}

type Client struct {
	inv      Invoker
	function string
}

// Request is the body the function expects.
type Request struct {
	Todos []model.Task `json:"todos"`
}

// Response is whatever the function chooses to say back; only used for logs.
// A body that is not a JSON object ends up verbatim in Summary.
type Response struct {
	Message string `json:"message"`
	Summary string `json:"summary"`
}

func New(inv Invoker, function string) *Client {
	if function == "" {
		function = DefaultFunction
	}
	return &Client{inv: inv, function: function}
}

// Summarize sends pending to the function. The function's own work (model
// call, channel delivery) is opaque: any error means the whole call failed,
// and any success status counts as delivered whatever the body says.
func (c *Client) Summarize(ctx context.Context, pending []model.Task) (Response, error) {
	if len(pending) == 0 {
		return Response{}, errors.New("summarize: no tasks given")
	}
	var body []byte
	if err := c.inv.Invoke(ctx, c.function, Request{Todos: pending}, &body); err != nil {
		return Response{}, fmt.Errorf("invoke %s: %w", c.function, err)
	}
	return parseResponse(body), nil
}

func parseResponse(body []byte) Response {
	body = bytes.TrimSpace(body)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Response{Summary: string(body)}
	}
	return Response{Message: text(fields["message"]), Summary: text(fields["summary"])}
}

// text unquotes a JSON string and keeps any other value as its JSON source.
func text(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}
