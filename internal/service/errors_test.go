package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFail_Nil(t *testing.T) {
	if err := Fail(OpList, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestFail_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Fail(OpInsert, cause)

	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RequestError, got %T", err)
	}
	if re.Op != OpInsert {
		t.Errorf("expected op %q, got %q", OpInsert, re.Op)
	}
	if re.Message != "connection refused" {
		t.Errorf("unexpected message %q", re.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable with errors.Is")
	}
	if err.Error() != "insert: connection refused" {
		t.Errorf("unexpected error string %q", err.Error())
	}
}

func TestFail_KeepsExistingRequestError(t *testing.T) {
	orig := &RequestError{Op: OpDelete, Message: "permission denied"}
	err := Fail(OpList, fmt.Errorf("outer: %w", orig))

	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatal("expected *RequestError")
	}
	if re.Op != OpDelete {
		t.Errorf("expected original op to survive, got %q", re.Op)
	}
}

func TestFail_Timeout(t *testing.T) {
	err := Fail(OpUpdate, fmt.Errorf("post: %w", context.DeadlineExceeded))
	if err.Error() != "update: request timed out" {
		t.Errorf("unexpected error string %q", err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected deadline to be reachable")
	}
}

func TestTaskID_Valid(t *testing.T) {
	tests := []struct {
		id   TaskID
		want bool
	}{
		{NoID, false},
		{-1, false},
		{1, true},
		{42, true},
	}
	for _, tt := range tests {
		if got := tt.id.Valid(); got != tt.want {
			t.Errorf("TaskID(%d).Valid() = %v, want %v", tt.id, got, tt.want)
		}
	}
}
