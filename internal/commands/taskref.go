package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"tasker/internal/service"
)

// TaskRef represents a parsed task reference: either the 1-based position
// in the displayed list or the backend id.
type TaskRef struct {
	Num int            // 1-based position, 0 when ID is set
	ID  service.TaskID // backend id, NoID when Num is set
}

// String returns the reference as the user typed it.
func (r TaskRef) String() string {
	if r.ID != service.NoID {
		return "#" + r.ID.String()
	}
	return strconv.Itoa(r.Num)
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
// 1. "<digits>" refers to a position in the list (e.g. 3)
// 2. "#<digits>" refers to a task id (e.g. #42)
// 3. Anything else is an error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := args[0]
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	if id, ok := strings.CutPrefix(arg, "#"); ok {
		n, err := parseDigits(id)
		if err != nil || n < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: service.TaskID(n)}, nil
	}

	n, err := parseDigits(arg)
	if err != nil {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	return TaskRef{Num: int(n)}, nil
}

// ResolveTaskRef finds the task ref points at in tasks, which must be in
// display order.
func ResolveTaskRef(tasks []service.Task, ref TaskRef) (service.Task, error) {
	if ref.ID != service.NoID {
		for _, t := range tasks {
			if t.ID == ref.ID {
				return t, nil
			}
		}
		return service.Task{}, fmt.Errorf("task not found: %s", ref)
	}

	if ref.Num < 1 || ref.Num > len(tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", ref.Num)
	}
	return tasks[ref.Num-1], nil
}

// parseDigits parses s, which must consist only of ASCII digits.
func parseDigits(s string) (int64, error) {
	if !isAllDigits(s) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return strconv.ParseInt(s, 10, 64)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
