// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"strconv"
	"time"
)

// TaskID identifies a stored task. The zero value means the task has not
// been assigned an id by the backend yet.
type TaskID int64

// NoID is the id of a task that has not been created remotely.
const NoID TaskID = 0

// Valid reports whether the id was assigned by the backend.
func (id TaskID) Valid() bool {
	return id > 0
}

func (id TaskID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Task represents a single row of the tasks table.
type Task struct {
	ID          TaskID    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsComplete  bool      `json:"is_complete"`
	CreatedAt   time.Time `json:"created_at"`
}

// Draft is the editable part of a task: what gets inserted on create and
// written on update. It never carries an id or creation time.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DraftOf returns the editable fields of t.
func DraftOf(t Task) Draft {
	return Draft{Title: t.Title, Description: t.Description}
}
