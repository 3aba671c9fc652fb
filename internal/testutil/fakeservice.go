// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"tasker/internal/service"
)

// Epoch is the creation time of the first task added to a FakeService.
var Epoch = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

// FakeService is an in-memory implementation of service.Service for testing.
// Ids are assigned sequentially from 1 and every new task is created one
// minute after the previous one.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID service.TaskID
	clock  time.Time

	// Error injection for testing
	ListTasksErr   error
	InsertTaskErr  error
	UpdateTaskErr  error
	SetCompleteErr error
	DeleteTaskErr  error

	// Call counters
	ListCalls     int
	InsertCalls   int
	UpdateCalls   int
	CompleteCalls int
	DeleteCalls   int
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1, clock: Epoch}
}

// AddTask stores a task as if it had been inserted remotely and returns it.
func (f *FakeService) AddTask(title, description string, complete bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(service.Draft{Title: title, Description: description}, complete)
}

// AddTaskAt stores a task with an explicit id and creation time.
func (f *FakeService) AddTaskAt(id service.TaskID, title string, createdAt time.Time) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: id, Title: title, CreatedAt: createdAt}
	f.tasks = append(f.tasks, t)
	if id >= f.nextID {
		f.nextID = id + 1
	}
	return t
}

// Snapshot returns the stored tasks in insertion order.
func (f *FakeService) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks)
}

// Get returns the stored task with the given id.
func (f *FakeService) Get(id service.TaskID) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Calls returns the total number of backend calls made.
func (f *FakeService) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ListCalls + f.InsertCalls + f.UpdateCalls + f.CompleteCalls + f.DeleteCalls
}

func (f *FakeService) insert(d service.Draft, complete bool) service.Task {
	t := service.Task{
		ID:          f.nextID,
		Title:       d.Title,
		Description: d.Description,
		IsComplete:  complete,
		CreatedAt:   f.clock,
	}
	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	f.tasks = append(f.tasks, t)
	return t
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListTasksErr != nil {
		return nil, service.Fail(service.OpList, f.ListTasksErr)
	}

	result := slices.Clone(f.tasks)
	slices.SortStableFunc(result, func(a, b service.Task) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result, nil
}

// InsertTask implements service.Service.
func (f *FakeService) InsertTask(ctx context.Context, draft service.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InsertCalls++
	if f.InsertTaskErr != nil {
		return service.Fail(service.OpInsert, f.InsertTaskErr)
	}
	f.insert(draft, false)
	return nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id service.TaskID, draft service.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateTaskErr != nil {
		return service.Fail(service.OpUpdate, f.UpdateTaskErr)
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Title = draft.Title
			f.tasks[i].Description = draft.Description
		}
	}
	return nil
}

// SetComplete implements service.Service.
func (f *FakeService) SetComplete(ctx context.Context, id service.TaskID, complete bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CompleteCalls++
	if f.SetCompleteErr != nil {
		return service.Fail(service.OpToggle, f.SetCompleteErr)
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].IsComplete = complete
		}
	}
	return nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.TaskID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteTaskErr != nil {
		return service.Fail(service.OpDelete, f.DeleteTaskErr)
	}
	f.tasks = slices.DeleteFunc(f.tasks, func(t service.Task) bool { return t.ID == id })
	return nil
}
