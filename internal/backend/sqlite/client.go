// Package sqlite implements service.Service on a local SQLite file.
// It stands in for the hosted database during development.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tasker/internal/service"
)

// Options configures a Client.
type Options struct {
	// Path is the database file. Parent directories are created.
	Path string

	// Table is the tasks table name.
	Table string

	// Timeout bounds each statement.
	Timeout time.Duration

	// Now assigns created_at. Defaults to time.Now.
	Now func() time.Time
}

// Client implements service.Service using database/sql and modernc.org/sqlite.
type Client struct {
	db      *sql.DB
	table   string
	timeout time.Duration
	now     func() time.Time
}

// New opens (and if needed creates) the database file and the tasks table.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Table == "" {
		opts.Table = "tasks"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if dir := filepath.Dir(opts.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite benefits from a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c := &Client{
		db:      db,
		table:   quoteIdent(opts.Table),
		timeout: opts.Timeout,
		now:     opts.Now,
	}

	if err := c.init(ctx); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return c, nil
}

func (c *Client) init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// created_at is stored as unix microseconds so that ordering is numeric.
	stmt := `CREATE TABLE IF NOT EXISTS ` + c.table + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		is_complete INTEGER DEFAULT 0,
		created_at INTEGER NOT NULL
	)`
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (c *Client) Close() error {
	return c.db.Close()
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `SELECT id, title, description, COALESCE(is_complete, 0), created_at
		FROM `+c.table+` ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, service.Fail(service.OpList, err)
	}
	defer rows.Close()

	var tasks []service.Task
	for rows.Next() {
		var (
			t       service.Task
			id      int64
			created int64
		)
		if err := rows.Scan(&id, &t.Title, &t.Description, &t.IsComplete, &created); err != nil {
			return nil, service.Fail(service.OpList, err)
		}
		t.ID = service.TaskID(id)
		t.CreatedAt = time.UnixMicro(created).UTC()
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, service.Fail(service.OpList, err)
	}
	return tasks, nil
}

// InsertTask implements service.Service.
func (c *Client) InsertTask(ctx context.Context, draft service.Draft) error {
	stmt := `INSERT INTO ` + c.table + ` (title, description, created_at) VALUES (?, ?, ?)`
	return c.exec(ctx, service.OpInsert, stmt, draft.Title, draft.Description, c.now().UnixMicro())
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id service.TaskID, draft service.Draft) error {
	stmt := `UPDATE ` + c.table + ` SET title = ?, description = ? WHERE id = ?`
	return c.exec(ctx, service.OpUpdate, stmt, draft.Title, draft.Description, int64(id))
}

// SetComplete implements service.Service.
func (c *Client) SetComplete(ctx context.Context, id service.TaskID, complete bool) error {
	stmt := `UPDATE ` + c.table + ` SET is_complete = ? WHERE id = ?`
	return c.exec(ctx, service.OpToggle, stmt, complete, int64(id))
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id service.TaskID) error {
	stmt := `DELETE FROM ` + c.table + ` WHERE id = ?`
	return c.exec(ctx, service.OpDelete, stmt, int64(id))
}

func (c *Client) exec(ctx context.Context, op, stmt string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.db.ExecContext(ctx, stmt, args...); err != nil {
		return service.Fail(op, err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
