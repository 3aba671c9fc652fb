package store

import "tasker/internal/service"

// Mode is the authoring mode of the form.
type Mode int

const (
	// Creating means submitting the draft inserts a new task.
	Creating Mode = iota

	// Editing means submitting the draft updates the edit target.
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "creating"
}

// Form holds the draft being authored and the task it edits, if any.
// The zero value is an empty form in Creating mode.
type Form struct {
	draft  service.Draft
	target service.TaskID
}

// SetTitle sets the draft title.
func (f *Form) SetTitle(title string) { f.draft.Title = title }

// SetDescription sets the draft description.
func (f *Form) SetDescription(description string) { f.draft.Description = description }

// Draft returns the current draft.
func (f *Form) Draft() service.Draft { return f.draft }

// Reset clears the draft fields. The edit target is kept.
func (f *Form) Reset() { f.draft = service.Draft{} }

// BeginEdit loads task into the draft and makes it the edit target.
func (f *Form) BeginEdit(task service.Task) {
	f.draft = service.DraftOf(task)
	f.target = task.ID
}

// CancelEdit returns to Creating mode with an empty draft.
func (f *Form) CancelEdit() {
	f.target = service.NoID
	f.draft = service.Draft{}
}

// Editing returns the edit target and whether the form is in Editing mode.
func (f *Form) Editing() (service.TaskID, bool) {
	return f.target, f.target != service.NoID
}

// Mode returns the current authoring mode.
func (f *Form) Mode() Mode {
	if f.target != service.NoID {
		return Editing
	}
	return Creating
}

func (f *Form) finishEdit() {
	f.target = service.NoID
}
