// Package backend opens the task backend selected by configuration.
package backend

import (
	"context"
	"fmt"
	"io"

	"tasker/internal/backend/postgres"
	"tasker/internal/backend/redis"
	"tasker/internal/backend/sqlite"
	"tasker/internal/backend/supabase"
	"tasker/internal/config"
	"tasker/internal/service"
)

// Open creates the service.Service named by cfg.Settings.Backend.
// The configuration must already be loaded and valid.
func Open(ctx context.Context, cfg *config.Config) (service.Service, error) {
	s := cfg.Settings

	switch s.Backend {
	case config.BackendSupabase:
		return opened(supabase.New(supabase.Options{
			URL:     s.Supabase.URL,
			Key:     s.Supabase.Key,
			Table:   s.Table,
			Timeout: s.Timeout,
		}))
	case config.BackendPostgres:
		return opened(postgres.New(ctx, postgres.Options{
			URL:         s.Postgres.URL,
			Table:       s.Table,
			Timeout:     s.Timeout,
			AutoMigrate: s.Postgres.AutoMigrate,
		}))
	case config.BackendSQLite:
		return opened(sqlite.New(ctx, sqlite.Options{
			Path:    s.SQLite.Path,
			Table:   s.Table,
			Timeout: s.Timeout,
		}))
	case config.BackendRedis:
		return opened(redis.New(ctx, redis.Options{
			URL:     s.Redis.URL,
			Table:   s.Table,
			Timeout: s.Timeout,
		}))
	default:
		return nil, fmt.Errorf("unknown backend: %s", s.Backend)
	}
}

// opened converts a constructor result so that a failed constructor yields
// a nil interface rather than a typed nil.
func opened[T service.Service](svc T, err error) (service.Service, error) {
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// Close releases svc if it holds resources.
func Close(svc service.Service) error {
	if c, ok := svc.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
