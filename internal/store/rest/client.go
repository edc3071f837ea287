// Package rest talks to a PostgREST-compatible table API (Supabase style)
// and to the functions endpoint living next to it.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	restPrefix      = "/rest/v1/"
	functionsPrefix = "/functions/v1/"

	defaultTable   = "todos"
	defaultTimeout = 10 * time.Second
)

// Options configure a Client.
type Options struct {
	BaseURL string // e.g. https://xyz.supabase.co
	APIKey  string // project anon key, sent as `apikey`
	Token   string // user access token; the API key is used when empty
	Table   string
	Timeout time.Duration // per request

	HTTPClient *http.Client
}

// Client is the HTTP transport shared by the task store and the
// summarization function.
type Client struct {
	baseURL string
	apiKey  string
	token   string
	table   string
	timeout time.Duration
	http    *http.Client
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "backend returned %d", e.Status)
	if e.Code != "" {
		b.WriteString(" " + e.Code)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	return b.String()
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("rest: base URL not set")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("rest: base URL: %w", err)
	}
	c := &Client{
		baseURL: base,
		apiKey:  opts.APIKey,
		token:   strings.TrimSpace(opts.Token),
		table:   opts.Table,
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
	}
	if c.table == "" {
		c.table = defaultTable
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c, nil
}

// Invoke calls a serverless function by name with a JSON body. out may be
// nil, or a *[]byte to receive the raw response body undecoded.
func (c *Client) Invoke(ctx context.Context, function string, body, out any) error {
	return c.do(ctx, http.MethodPost, functionsPrefix+function, nil, body, "", out)
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, prefer string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if bearer := c.bearer(); bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = data
		return nil
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) bearer() string {
	if c.token != "" {
		return c.token
	}
	return c.apiKey
}

func decodeError(status int, data []byte) error {
	apiErr := &APIError{Status: status}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		apiErr.Details = body.Details
		apiErr.Hint = body.Hint
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	} else if s := strings.TrimSpace(string(data)); s != "" {
		apiErr.Message = s
	}
	return apiErr
}
