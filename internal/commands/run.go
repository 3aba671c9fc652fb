package commands

import (
	"context"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/logging"
	"tasker/internal/service"
	"tasker/internal/store"
)

// newStore creates a store over svc that logs to errOut.
func newStore(cfg *config.Config, svc service.Service, errOut io.Writer) *store.Store {
	log := logging.New(errOut, logging.Options{
		Debug: cfg.Debug,
		JSON:  cfg.LogJSON,
	})
	return store.New(svc, nil, log.WithField("backend", cfg.Settings.Backend))
}

// lookupTask fetches the task list and resolves the reference in args.
// On failure it reports the error and returns a non-zero exit code.
func lookupTask(ctx context.Context, st *store.Store, args []string, errOut io.Writer) (service.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}

	if err := st.Refresh(ctx); err != nil {
		return service.Task{}, backendError(errOut, err)
	}

	task, err := ResolveTaskRef(st.Tasks(), ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}

func backendError(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

func printOK(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
