// Package postgres implements service.Service directly against a Postgres
// database, such as the one behind a Supabase project.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tasker/internal/service"
)

// Options configures a Client.
type Options struct {
	// URL is a postgres:// connection string.
	URL string

	// Table is the tasks table name.
	Table string

	// Timeout bounds each query.
	Timeout time.Duration

	// AutoMigrate creates the table when it does not exist.
	AutoMigrate bool
}

// Client implements service.Service using a pgx connection pool.
type Client struct {
	pool    *pgxpool.Pool
	table   string
	timeout time.Duration
}

// New opens a connection pool and checks that the database is reachable.
func New(ctx context.Context, opts Options) (*Client, error) {
	config, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}

	// One user, one request at a time.
	config.MaxConns = 4
	config.MinConns = 0
	config.MaxConnIdleTime = 30 * time.Second

	if opts.Table == "" {
		opts.Table = "tasks"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(pingCtx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	c := &Client{
		pool:    pool,
		table:   pgx.Identifier{opts.Table}.Sanitize(),
		timeout: opts.Timeout,
	}

	if opts.AutoMigrate {
		if err := c.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return c, nil
}

// Close releases the pool.
func (c *Client) Close() error {
	c.pool.Close()
	return nil
}

// Migrate creates the tasks table if it does not exist. The layout matches
// the table a Supabase project creates for this app.
func (c *Client) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stmt := `CREATE TABLE IF NOT EXISTS ` + c.table + ` (
		id bigint GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		title text NOT NULL DEFAULT '',
		description text NOT NULL DEFAULT '',
		is_complete boolean DEFAULT false,
		created_at timestamptz NOT NULL DEFAULT now()
	)`
	if _, err := c.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}
	return nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stmt := `SELECT id, title, description, COALESCE(is_complete, false), created_at
		FROM ` + c.table + ` ORDER BY created_at ASC, id ASC`
	rows, err := c.pool.Query(ctx, stmt)
	if err != nil {
		return nil, service.Fail(service.OpList, err)
	}

	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (service.Task, error) {
		var t service.Task
		var id int64
		err := row.Scan(&id, &t.Title, &t.Description, &t.IsComplete, &t.CreatedAt)
		t.ID = service.TaskID(id)
		return t, err
	})
	if err != nil {
		return nil, service.Fail(service.OpList, err)
	}
	return tasks, nil
}

// InsertTask implements service.Service.
func (c *Client) InsertTask(ctx context.Context, draft service.Draft) error {
	stmt := `INSERT INTO ` + c.table + ` (title, description) VALUES ($1, $2)`
	return c.exec(ctx, service.OpInsert, stmt, draft.Title, draft.Description)
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id service.TaskID, draft service.Draft) error {
	stmt := `UPDATE ` + c.table + ` SET title = $1, description = $2 WHERE id = $3`
	return c.exec(ctx, service.OpUpdate, stmt, draft.Title, draft.Description, int64(id))
}

// SetComplete implements service.Service.
func (c *Client) SetComplete(ctx context.Context, id service.TaskID, complete bool) error {
	stmt := `UPDATE ` + c.table + ` SET is_complete = $1 WHERE id = $2`
	return c.exec(ctx, service.OpToggle, stmt, complete, int64(id))
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id service.TaskID) error {
	stmt := `DELETE FROM ` + c.table + ` WHERE id = $1`
	return c.exec(ctx, service.OpDelete, stmt, int64(id))
}

func (c *Client) exec(ctx context.Context, op, stmt string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.pool.Exec(ctx, stmt, args...); err != nil {
		return service.Fail(op, err)
	}
	return nil
}
