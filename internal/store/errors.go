package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable matches every *UnavailableError.
	ErrUnavailable = errors.New("store unavailable")

	// ErrSessionCompleted is returned when updating a session that already
	// has a completion time.
	ErrSessionCompleted = errors.New("study session already completed")
)

// UnavailableError wraps a failure of the underlying database.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

func unavailable(op string, err error) error {
	return &UnavailableError{Op: op, Err: err}
}

// notFound annotates ErrNotFound with the record kind and id.
func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
