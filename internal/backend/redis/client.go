// Package redis implements service.Service on a Redis database.
//
// Layout, for table "tasks":
//
//	tasks:seq         counter used to assign ids
//	tasks:<id>        hash with title, description, is_complete, created_at
//	tasks:by_created  sorted set of ids scored by created_at (unix micros)
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"tasker/internal/service"
)

// Options configures a Client.
type Options struct {
	// URL is a redis:// or rediss:// URL.
	URL string

	// Table prefixes every key.
	Table string

	// Timeout bounds each command round trip.
	Timeout time.Duration

	// Now assigns created_at. Defaults to time.Now.
	Now func() time.Time
}

// Client implements service.Service using go-redis.
type Client struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
	now     func() time.Time
}

// setIfExists writes hash fields only when the hash exists, so updating a
// deleted id does not resurrect a partial row.
var setIfExists = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return redis.call('HSET', KEYS[1], unpack(ARGV))
end
return 0
`)

// New connects to Redis and checks that it is reachable.
func New(ctx context.Context, opts Options) (*Client, error) {
	opt, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if opts.Table == "" {
		opts.Table = "tasks"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	opt.PoolSize = 4
	opt.DialTimeout = opts.Timeout
	opt.ConnMaxIdleTime = 5 * time.Minute

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{rdb: rdb, prefix: opts.Table, timeout: opts.Timeout, now: opts.Now}, nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) seqKey() string   { return c.prefix + ":seq" }
func (c *Client) indexKey() string { return c.prefix + ":by_created" }

func (c *Client) taskKey(id service.TaskID) string {
	return c.prefix + ":" + id.String()
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Members with equal scores come back in lexical order of the id.
	ids, err := c.rdb.ZRange(ctx, c.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, service.Fail(service.OpList, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, raw := range ids {
			cmds[i] = p.HGetAll(ctx, c.prefix+":"+raw)
		}
		return nil
	})
	if err != nil {
		return nil, service.Fail(service.OpList, err)
	}

	tasks := make([]service.Task, 0, len(ids))
	for i, raw := range ids {
		fields := cmds[i].Val()
		if len(fields) == 0 {
			continue // deleted between ZRANGE and HGETALL
		}
		task, err := decode(raw, fields)
		if err != nil {
			return nil, service.Fail(service.OpList, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func decode(rawID string, fields map[string]string) (service.Task, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return service.Task{}, fmt.Errorf("invalid task id %q", rawID)
	}
	created, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return service.Task{}, fmt.Errorf("task %d: invalid created_at", id)
	}
	complete, _ := strconv.ParseBool(fields["is_complete"])

	return service.Task{
		ID:          service.TaskID(id),
		Title:       fields["title"],
		Description: fields["description"],
		IsComplete:  complete,
		CreatedAt:   time.UnixMicro(created).UTC(),
	}, nil
}

// InsertTask implements service.Service.
func (c *Client) InsertTask(ctx context.Context, draft service.Draft) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.rdb.Incr(ctx, c.seqKey()).Result()
	if err != nil {
		return service.Fail(service.OpInsert, err)
	}
	id := service.TaskID(n)
	created := c.now().UnixMicro()

	_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, c.taskKey(id),
			"title", draft.Title,
			"description", draft.Description,
			"is_complete", "false",
			"created_at", strconv.FormatInt(created, 10),
		)
		p.ZAdd(ctx, c.indexKey(), redis.Z{Score: float64(created), Member: id.String()})
		return nil
	})
	return service.Fail(service.OpInsert, err)
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id service.TaskID, draft service.Draft) error {
	return c.set(ctx, service.OpUpdate, id, "title", draft.Title, "description", draft.Description)
}

// SetComplete implements service.Service.
func (c *Client) SetComplete(ctx context.Context, id service.TaskID, complete bool) error {
	return c.set(ctx, service.OpToggle, id, "is_complete", strconv.FormatBool(complete))
}

func (c *Client) set(ctx context.Context, op string, id service.TaskID, fieldValues ...any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := setIfExists.Run(ctx, c.rdb, []string{c.taskKey(id)}, fieldValues...).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return service.Fail(op, err)
	}
	return nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id service.TaskID) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, c.taskKey(id))
		p.ZRem(ctx, c.indexKey(), id.String())
		return nil
	})
	return service.Fail(service.OpDelete, err)
}
