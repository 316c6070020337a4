package services

import (
	"errors"
	"fmt"
)

var (
	// ErrStore matches every StoreError.
	ErrStore = errors.New("store unavailable")
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("not found")
)

// StoreError wraps a database or storage failure. Its text is for logs only.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string        { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error        { return e.Err }
func (e *StoreError) Is(target error) bool { return target == ErrStore }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// NotFoundError carries the empty-state message shown to the user.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string        { return e.Message }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(msg string) error {
	return &NotFoundError{Message: msg}
}
