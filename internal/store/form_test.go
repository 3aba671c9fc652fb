package store

import (
	"testing"

	"tasker/internal/service"
)

func TestForm_ZeroValue(t *testing.T) {
	var f Form
	if f.Mode() != Creating {
		t.Errorf("expected creating mode, got %v", f.Mode())
	}
	if _, ok := f.Editing(); ok {
		t.Error("expected no edit target")
	}
	if f.Draft() != (service.Draft{}) {
		t.Errorf("expected empty draft, got %+v", f.Draft())
	}
}

func TestForm_FieldsIndependent(t *testing.T) {
	var f Form
	f.SetTitle("Buy milk")
	f.SetDescription("2%")
	f.SetTitle("Buy oat milk")

	want := service.Draft{Title: "Buy oat milk", Description: "2%"}
	if f.Draft() != want {
		t.Errorf("expected %+v, got %+v", want, f.Draft())
	}
}

func TestForm_BeginAndCancelEdit(t *testing.T) {
	var f Form
	f.SetTitle("unsaved")
	f.BeginEdit(service.Task{ID: 7, Title: "Buy milk", Description: "2%", IsComplete: true})

	id, ok := f.Editing()
	if !ok || id != 7 {
		t.Errorf("expected edit target 7, got %d (%v)", id, ok)
	}
	if f.Mode() != Editing {
		t.Errorf("expected editing mode, got %v", f.Mode())
	}
	if f.Draft().Title != "Buy milk" || f.Draft().Description != "2%" {
		t.Errorf("expected draft copied from task, got %+v", f.Draft())
	}

	f.CancelEdit()
	if f.Mode() != Creating {
		t.Errorf("expected creating mode after cancel, got %v", f.Mode())
	}
	if f.Draft() != (service.Draft{}) {
		t.Errorf("expected empty draft after cancel, got %+v", f.Draft())
	}
}

func TestForm_ResetKeepsTarget(t *testing.T) {
	var f Form
	f.BeginEdit(service.Task{ID: 3, Title: "x"})
	f.Reset()
	if _, ok := f.Editing(); !ok {
		t.Error("expected reset to keep the edit target")
	}
	if f.Draft().Title != "" {
		t.Errorf("expected empty title, got %q", f.Draft().Title)
	}
}
