package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "tasker help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-52s %s\n", "tasker", "List tasks")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-52s %s\n", cmd.Usage(), cmd.Synopsis())
	}
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `
<ref> is a position in the list (1, 2, ...) or a task id (#42).

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
  --log-json       Print logs as JSON

Environment:
  TASKER_BACKEND   supabase (default), postgres, sqlite or redis
  SUPABASE_URL, SUPABASE_KEY, DATABASE_URL, REDIS_URL, TASKER_SQLITE_PATH
  TASKER_TABLE, TASKER_TIMEOUT
`
