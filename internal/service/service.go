// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// Every call is a single request against the remote tasks table.
// Commands and the store never import a database or HTTP client directly.
//
// All errors returned by implementations are *RequestError.
type Service interface {
	// ListTasks returns every task ordered by created_at ascending.
	ListTasks(ctx context.Context) ([]Task, error)

	// InsertTask creates a task from the draft. The backend assigns
	// id and created_at.
	InsertTask(ctx context.Context, draft Draft) error

	// UpdateTask overwrites title and description of the task with the given id.
	// Updating an id that does not exist is not an error.
	UpdateTask(ctx context.Context, id TaskID, draft Draft) error

	// SetComplete sets is_complete of the task with the given id.
	SetComplete(ctx context.Context, id TaskID, complete bool) error

	// DeleteTask removes the task with the given id.
	// Deleting an id that does not exist is not an error.
	DeleteTask(ctx context.Context, id TaskID) error
}
