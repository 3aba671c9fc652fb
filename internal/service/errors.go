package service

import (
	"context"
	"errors"
	"strings"
)

// Operation names used in RequestError.Op.
const (
	OpList   = "list"
	OpInsert = "insert"
	OpUpdate = "update"
	OpToggle = "toggle"
	OpDelete = "delete"
)

// RequestError reports a failed request to the task backend.
// Message is the human-readable text reported by the backend.
type RequestError struct {
	Op      string
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return e.Op + ": " + e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Fail wraps err as a RequestError for op. A nil err yields nil, and an
// err that already is a RequestError is returned unchanged.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *RequestError
	if errors.As(err, &re) {
		return err
	}
	return &RequestError{Op: op, Message: messageOf(err), Err: err}
}

// IsRequestError reports whether err is a backend request failure.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

func messageOf(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return strings.TrimSpace(err.Error())
}
