// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by every command.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task reference).
	UserError = 1

	// ConfigError indicates missing or invalid backend configuration.
	ConfigError = 2

	// BackendError indicates a failed request to the task backend.
	BackendError = 3
)
