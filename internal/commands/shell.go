package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/output"
	"tasker/internal/service"
	"tasker/internal/store"
)

// maxLineSize is the longest input line the shell accepts. Longer lines end
// the session with an error.
const maxLineSize = 1 << 20

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the interactive shell.
// The task list, the draft and the edit mode live for the whole session.
type ShellCmd struct {
	in io.Reader
}

// SetInput sets the input the shell reads events from (for testing).
// Defaults to os.Stdin.
func (c *ShellCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *ShellCmd) Name() string       { return "shell" }
func (c *ShellCmd) Aliases() []string  { return nil }
func (c *ShellCmd) Synopsis() string   { return "Start an interactive session" }
func (c *ShellCmd) Usage() string      { return "tasker shell" }
func (c *ShellCmd) NeedsBackend() bool { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	in := c.in
	if in == nil {
		in = os.Stdin
	}

	sh := &shell{
		st:     newStore(cfg, svc, errOut),
		quiet:  cfg.Quiet,
		out:    out,
		errOut: errOut,
	}

	// Errors are logged by the store; the session carries on.
	_ = sh.st.Refresh(ctx)
	sh.printTasks()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	for {
		sh.prompt()
		if !scanner.Scan() {
			break
		}
		if !sh.handle(ctx, scanner.Text()) {
			return exitcode.Success
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !cfg.Quiet {
		fmt.Fprintln(out)
	}
	return exitcode.Success
}

// shell is the state of one interactive session.
type shell struct {
	st     *store.Store
	quiet  bool
	out    io.Writer
	errOut io.Writer
}

func (sh *shell) prompt() {
	if sh.quiet {
		return
	}
	if id, ok := sh.st.Form().Editing(); ok {
		fmt.Fprintf(sh.out, "edit #%s> ", id)
		return
	}
	fmt.Fprint(sh.out, "> ")
}

// handle runs one event. It returns false when the session should end.
func (sh *shell) handle(ctx context.Context, line string) bool {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "":
	case "quit", "exit":
		return false
	case "help", "?":
		fmt.Fprint(sh.out, shellHelpText)
	case "ls", "list":
		_ = sh.st.Refresh(ctx)
		sh.printTasks()
	case "title":
		sh.st.Form().SetTitle(rest)
	case "desc":
		sh.st.Form().SetDescription(rest)
	case "draft":
		sh.printDraft()
	case "submit":
		if err := sh.st.Submit(ctx); err == nil {
			sh.printTasks()
		}
	case "edit":
		if task, ok := sh.resolve(rest); ok {
			sh.st.BeginEdit(task)
			sh.printDraft()
		}
	case "cancel":
		sh.st.CancelEdit()
	case "toggle":
		if task, ok := sh.resolve(rest); ok {
			if err := sh.st.Toggle(ctx, task.ID, task.IsComplete); err == nil {
				sh.printTasks()
			}
		}
	case "rm":
		if task, ok := sh.resolve(rest); ok {
			if err := sh.st.Delete(ctx, task.ID); err == nil {
				sh.printTasks()
			}
		}
	default:
		fmt.Fprintf(sh.errOut, "error: unknown command: %s\n", name)
	}
	return true
}

// resolve finds a task in the list as last displayed.
func (sh *shell) resolve(arg string) (service.Task, bool) {
	ref, err := ParseTaskRef(strings.Fields(arg))
	if err == nil {
		var task service.Task
		if task, err = ResolveTaskRef(sh.st.Tasks(), ref); err == nil {
			return task, true
		}
	}
	fmt.Fprintf(sh.errOut, "error: %v\n", err)
	return service.Task{}, false
}

func (sh *shell) printTasks() {
	tasks := sh.st.Tasks()
	if len(tasks) == 0 {
		if !sh.quiet {
			fmt.Fprintln(sh.out, "no tasks found")
		}
		return
	}
	output.FormatTasks(sh.out, tasks)
}

func (sh *shell) printDraft() {
	id, editing := sh.st.Form().Editing()
	output.FormatDraft(sh.out, id, editing, sh.st.Form().Draft())
}

const shellHelpText = `Commands:
  ls                 Reload and print the task list
  title <text>       Set the draft title
  desc <text>        Set the draft description
  draft              Print the draft
  submit             Create a task from the draft, or save the edit
  edit <ref>         Load a task into the draft for editing
  cancel             Leave edit mode and clear the draft
  toggle <ref>       Flip a task between open and completed
  rm <ref>           Delete a task
  help               Print this help
  quit               Leave the shell

<ref> is a position in the list (1, 2, ...) or a task id (#42).
`
