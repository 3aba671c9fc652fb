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
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// Fields without a flag keep their current value.
type EditCmd struct {
	title       *string
	description *string
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(title string) {
	c.title = &title
}

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(desc string) {
	c.description = &desc
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Change a task's title or description" }
func (c *EditCmd) Usage() string      { return "tasker edit [--title <text>] [--desc <text>] <ref>" }
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description = nil, nil

	setTitle := func(s string) error { c.title = &s; return nil }
	setDesc := func(s string) error { c.description = &s; return nil }
	fs.Func("title", "", setTitle)
	fs.Func("t", "", setTitle)
	fs.Func("desc", "", setDesc)
	fs.Func("d", "", setDesc)
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.title == nil && c.description == nil {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --desc)")
		return exitcode.UserError
	}

	st := newStore(cfg, svc, errOut)
	task, code := lookupTask(ctx, st, args, errOut)
	if code != exitcode.Success {
		return code
	}

	st.BeginEdit(task)
	if c.title != nil {
		st.Form().SetTitle(*c.title)
	}
	if c.description != nil {
		st.Form().SetDescription(*c.description)
	}

	if err := st.Submit(ctx); err != nil {
		return backendError(errOut, err)
	}
	return printOK(cfg, out)
}
