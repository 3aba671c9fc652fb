// Package supabase implements service.Service against a Supabase project
// through its PostgREST endpoint.
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"golang.org/x/oauth2"

	"tasker/internal/service"
)

const (
	// RestPath is the PostgREST mount point of a Supabase project.
	RestPath = "/rest/v1"

	// DefaultTimeout is used when Options.Timeout is zero.
	DefaultTimeout = 10 * time.Second
)

// Options configures a Client.
type Options struct {
	// URL is the project URL, e.g. https://xyz.supabase.co.
	URL string

	// Key is the anon or service-role API key. It is sent both as the
	// apikey header and as the bearer token.
	Key string

	// Table is the tasks table name.
	Table string

	// Timeout bounds each request.
	Timeout time.Duration

	// HTTPClient overrides the base transport (for testing). The bearer
	// token is layered on top of its transport.
	HTTPClient *http.Client
}

// Client implements service.Service using postgrest-go.
type Client struct {
	restURL string
	key     string
	table   string
	timeout time.Duration
	base    http.RoundTripper
}

// New creates a new Supabase client.
func New(opts Options) (*Client, error) {
	if opts.URL == "" || opts.Key == "" {
		return nil, fmt.Errorf("supabase url and key are required")
	}
	if opts.Table == "" {
		opts.Table = "tasks"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	restURL := strings.TrimRight(opts.URL, "/") + RestPath
	if _, err := url.Parse(restURL); err != nil {
		return nil, fmt.Errorf("invalid supabase url: %w", err)
	}

	base := http.DefaultTransport
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		base = opts.HTTPClient.Transport
	}

	return &Client{
		restURL: restURL,
		key:     opts.Key,
		table:   opts.Table,
		timeout: opts.Timeout,
		base: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Key, TokenType: "Bearer"}),
			Base:   base,
		},
	}, nil
}

// row is the wire shape of a task. is_complete may be null.
type row struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsComplete  *bool     `json:"is_complete"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r row) task() service.Task {
	return service.Task{
		ID:          service.TaskID(r.ID),
		Title:       r.Title,
		Description: r.Description,
		IsComplete:  r.IsComplete != nil && *r.IsComplete,
		CreatedAt:   r.CreatedAt,
	}
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	q, rt, cancel := c.from(ctx)
	defer cancel()

	var rows []row
	_, err := q.Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, rt.fail(service.OpList, err)
	}

	result := make([]service.Task, 0, len(rows))
	for _, r := range rows {
		result = append(result, r.task())
	}
	return result, nil
}

// InsertTask implements service.Service.
func (c *Client) InsertTask(ctx context.Context, draft service.Draft) error {
	q, rt, cancel := c.from(ctx)
	defer cancel()

	_, _, err := q.Insert(draft, false, "", "minimal", "").Execute()
	return rt.fail(service.OpInsert, err)
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id service.TaskID, draft service.Draft) error {
	q, rt, cancel := c.from(ctx)
	defer cancel()

	_, _, err := q.Update(draft, "minimal", "").Eq("id", id.String()).Execute()
	return rt.fail(service.OpUpdate, err)
}

// SetComplete implements service.Service.
func (c *Client) SetComplete(ctx context.Context, id service.TaskID, complete bool) error {
	q, rt, cancel := c.from(ctx)
	defer cancel()

	body := map[string]bool{"is_complete": complete}
	_, _, err := q.Update(body, "minimal", "").Eq("id", id.String()).Execute()
	return rt.fail(service.OpToggle, err)
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id service.TaskID) error {
	q, rt, cancel := c.from(ctx)
	defer cancel()

	_, _, err := q.Delete("minimal", "").Eq("id", id.String()).Execute()
	return rt.fail(service.OpDelete, err)
}

// from starts a query on the tasks table. Every query gets its own
// postgrest client so that the request carries ctx, the timeout and a
// fresh X-Request-Id.
func (c *Client) from(ctx context.Context) (*postgrest.QueryBuilder, *requestTransport, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	pc := postgrest.NewClient(c.restURL, "", map[string]string{
		"X-Request-Id": uuid.NewString(),
	})
	rt := &requestTransport{ctx: ctx, base: c.base}
	if pc.ClientError == nil {
		pc.SetApiKey(c.key)
		pc.Transport.Parent = rt
	}
	return pc.From(c.table), rt, cancel
}

// requestTransport binds one request to its context and records the
// response status.
type requestTransport struct {
	ctx    context.Context
	base   http.RoundTripper
	status int
}

func (t *requestTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req.WithContext(t.ctx))
	if resp != nil {
		t.status = resp.StatusCode
	}
	return resp, err
}

// fail converts a postgrest error into a *service.RequestError.
// PostgREST error bodies come back as "(code) message"; the code is empty
// for errors raised by the API gateway.
func (t *requestTransport) fail(op string, err error) error {
	if err == nil {
		return nil
	}
	if t.status < http.StatusBadRequest {
		return service.Fail(op, err)
	}

	msg := strings.TrimPrefix(err.Error(), "() ")
	switch t.status {
	case http.StatusUnauthorized, http.StatusForbidden:
		msg = "api key rejected (check SUPABASE_KEY): " + msg
	case http.StatusNotFound:
		msg = "table not found: " + msg
	}
	return &service.RequestError{Op: op, Message: msg, Err: err}
}
