// Package config handles the configuration directory, the config file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "tasker"

	// SettingsFile is the config file name inside the config directory.
	SettingsFile = "config.yaml"

	// EnvFile is the dotenv file name, looked up in the working directory
	// and in the config directory.
	EnvFile = ".env"

	// DefaultTable is the name of the remote tasks table.
	DefaultTable = "tasks"

	// DefaultTimeout bounds every backend request.
	DefaultTimeout = 10 * time.Second

	// SQLiteFile is the default database file name for the sqlite backend.
	SQLiteFile = "tasks.db"
)

// Backend names.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// LogJSON switches log output to JSON.
	LogJSON bool

	// Settings are the backend settings read by Load.
	Settings Settings
}

// Settings selects and configures the task backend.
type Settings struct {
	Backend  string           `yaml:"backend"`
	Table    string           `yaml:"table"`
	Timeout  time.Duration    `yaml:"timeout"`
	Supabase SupabaseSettings `yaml:"supabase"`
	Postgres PostgresSettings `yaml:"postgres"`
	SQLite   SQLiteSettings   `yaml:"sqlite"`
	Redis    RedisSettings    `yaml:"redis"`
}

// SupabaseSettings configures the PostgREST backend.
type SupabaseSettings struct {
	URL string `yaml:"url"`
	Key string `yaml:"key"`
}

// PostgresSettings configures the direct Postgres backend.
type PostgresSettings struct {
	URL         string `yaml:"url"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// SQLiteSettings configures the local SQLite backend.
type SQLiteSettings struct {
	Path string `yaml:"path"`
}

// RedisSettings configures the Redis backend.
type RedisSettings struct {
	URL string `yaml:"url"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasker or $HOME/.config/tasker.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the config file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Load reads settings in increasing order of precedence: defaults, the
// config file, then environment variables. Variables from .env files in
// the working directory and the config directory are added to the
// environment first; variables already set are never overwritten.
func (c *Config) Load() error {
	for _, path := range []string{EnvFile, filepath.Join(c.Dir, EnvFile)} {
		if !exists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	s := Settings{
		Backend: BackendSupabase,
		Table:   DefaultTable,
		Timeout: DefaultTimeout,
	}

	if exists(c.SettingsPath()) {
		data, err := os.ReadFile(c.SettingsPath())
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid %s: %w", SettingsFile, err)
		}
	}

	if err := applyEnv(&s); err != nil {
		return err
	}

	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	if s.SQLite.Path == "" {
		s.SQLite.Path = filepath.Join(c.Dir, SQLiteFile)
		// the default database lives in the private config directory
		if s.Backend == BackendSQLite {
			if err := c.EnsureDir(); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
		}
	}

	c.Settings = s
	return nil
}

// Validate checks that the selected backend has everything it needs.
func (c *Config) Validate() error {
	s := c.Settings
	if s.Table == "" {
		return fmt.Errorf("%w: table name is empty", ErrInvalid)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalid)
	}

	switch s.Backend {
	case BackendSupabase:
		if s.Supabase.URL == "" {
			return fmt.Errorf("%w: supabase url not set (SUPABASE_URL)", ErrInvalid)
		}
		if s.Supabase.Key == "" {
			return fmt.Errorf("%w: supabase key not set (SUPABASE_KEY)", ErrInvalid)
		}
	case BackendPostgres:
		if s.Postgres.URL == "" {
			return fmt.Errorf("%w: postgres url not set (DATABASE_URL)", ErrInvalid)
		}
	case BackendSQLite:
		if s.SQLite.Path == "" {
			return fmt.Errorf("%w: sqlite path not set (TASKER_SQLITE_PATH)", ErrInvalid)
		}
	case BackendRedis:
		if s.Redis.URL == "" {
			return fmt.Errorf("%w: redis url not set (REDIS_URL)", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown backend: %s", ErrInvalid, s.Backend)
	}
	return nil
}

func applyEnv(s *Settings) error {
	setString(&s.Backend, "TASKER_BACKEND")
	setString(&s.Table, "TASKER_TABLE")
	setString(&s.Supabase.URL, "SUPABASE_URL")
	setString(&s.Supabase.Key, "SUPABASE_ANON_KEY")
	setString(&s.Supabase.Key, "SUPABASE_KEY")
	setString(&s.Postgres.URL, "DATABASE_URL")
	setString(&s.SQLite.Path, "TASKER_SQLITE_PATH")
	setString(&s.Redis.URL, "REDIS_URL")

	if v := os.Getenv("TASKER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: TASKER_TIMEOUT: %v", ErrInvalid, err)
		}
		s.Timeout = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
