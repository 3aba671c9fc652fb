// Package store keeps the local task list in sync with the task backend
// and holds the form used to author tasks.
//
// A Store is driven from a single goroutine: every operation performs one
// backend round trip and then updates local state. Failures are logged and
// returned, and never change the local list, the draft or the edit mode.
package store

import (
	"cmp"
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"tasker/internal/logging"
	"tasker/internal/service"
)

// State is the client-side application state.
// The task list is a cache of the backend and is never authoritative.
type State struct {
	Tasks []service.Task
	Form  Form
}

// Store mediates every read and write against the backend.
// It is not safe for concurrent use.
type Store struct {
	svc   service.Service
	state *State
	log   *logrus.Entry
}

// New creates a store over svc operating on state.
// A nil state starts empty; a nil logger discards output.
func New(svc service.Service, state *State, log *logrus.Entry) *Store {
	if state == nil {
		state = &State{}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Store{svc: svc, state: state, log: log}
}

// State returns the state the store operates on.
func (s *Store) State() *State { return s.state }

// Form returns the form holding the draft.
func (s *Store) Form() *Form { return &s.state.Form }

// Tasks returns a copy of the local task list.
func (s *Store) Tasks() []service.Task {
	return slices.Clone(s.state.Tasks)
}

// Find returns the local task with the given id.
func (s *Store) Find(id service.TaskID) (service.Task, bool) {
	i := slices.IndexFunc(s.state.Tasks, func(t service.Task) bool { return t.ID == id })
	if i < 0 {
		return service.Task{}, false
	}
	return s.state.Tasks[i], true
}

// Refresh replaces the local list with the backend's tasks.
func (s *Store) Refresh(ctx context.Context) error {
	tasks, err := s.svc.ListTasks(ctx)
	if err != nil {
		s.fail(err, "Error fetching tasks", logrus.Fields{"op": service.OpList})
		return err
	}

	// Backends already order by created_at; keep the invariant even if one doesn't.
	slices.SortStableFunc(tasks, func(a, b service.Task) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	s.state.Tasks = tasks
	s.log.WithField("count", len(tasks)).Debug("fetched tasks")
	return nil
}

// BeginEdit switches the form to Editing mode for task.
func (s *Store) BeginEdit(task service.Task) {
	s.state.Form.BeginEdit(task)
}

// CancelEdit switches the form back to Creating mode.
func (s *Store) CancelEdit() {
	s.state.Form.CancelEdit()
}

// Submit creates a task from the draft, or updates the edit target when
// the form is in Editing mode.
func (s *Store) Submit(ctx context.Context) error {
	if id, ok := s.state.Form.Editing(); ok {
		return s.update(ctx, id)
	}
	return s.create(ctx)
}

func (s *Store) create(ctx context.Context) error {
	draft := s.state.Form.Draft()
	if err := s.svc.InsertTask(ctx, draft); err != nil {
		s.fail(err, "Error adding task", logrus.Fields{"op": OpCreate})
		return err
	}

	s.state.Form.Reset()
	s.reconcile(ctx, OpCreate, nil)
	return nil
}

func (s *Store) update(ctx context.Context, id service.TaskID) error {
	if !id.Valid() {
		return nil
	}

	if err := s.svc.UpdateTask(ctx, id, s.state.Form.Draft()); err != nil {
		s.fail(err, "Error updating task", logrus.Fields{"op": OpUpdate, "id": id})
		return err
	}

	s.state.Form.finishEdit()
	s.state.Form.Reset()
	s.reconcile(ctx, OpUpdate, nil)
	return nil
}

// Toggle sets the completion flag of task id to the negation of current.
func (s *Store) Toggle(ctx context.Context, id service.TaskID, current bool) error {
	if !id.Valid() {
		return nil
	}

	next := !current
	if err := s.svc.SetComplete(ctx, id, next); err != nil {
		s.fail(err, "Error toggling complete", logrus.Fields{"op": OpToggle, "id": id})
		return err
	}

	s.reconcile(ctx, OpToggle, func() {
		for i := range s.state.Tasks {
			if s.state.Tasks[i].ID == id {
				s.state.Tasks[i].IsComplete = next
			}
		}
	})
	return nil
}

// Delete removes task id.
func (s *Store) Delete(ctx context.Context, id service.TaskID) error {
	if !id.Valid() {
		return nil
	}

	if err := s.svc.DeleteTask(ctx, id); err != nil {
		s.fail(err, "Error deleting task", logrus.Fields{"op": OpDelete, "id": id})
		return err
	}

	s.reconcile(ctx, OpDelete, func() {
		s.state.Tasks = slices.DeleteFunc(slices.Clone(s.state.Tasks), func(t service.Task) bool {
			return t.ID == id
		})
	})
	return nil
}

// reconcile brings local state up to date after op succeeded.
// A failed refetch is logged by Refresh and leaves the list as it was.
func (s *Store) reconcile(ctx context.Context, op Op, patch func()) {
	if PolicyFor(op) == PatchLocal && patch != nil {
		patch()
		return
	}
	_ = s.Refresh(ctx)
}

func (s *Store) fail(err error, msg string, fields logrus.Fields) {
	s.log.WithFields(fields).WithError(err).Error(msg)
}
