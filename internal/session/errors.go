package session

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOutcome matches every *InvalidOutcomeError.
	ErrInvalidOutcome = errors.New("invalid answer outcome")

	// ErrUnknownCard is returned when an answer names a card that is not in
	// the session's deck.
	ErrUnknownCard = errors.New("card is not part of this session")

	// ErrSessionCompleted is returned when answering after Finish or Abandon.
	ErrSessionCompleted = errors.New("session is no longer open")

	// ErrNoCardSets is returned when a session is started without card sets.
	ErrNoCardSets = errors.New("session needs at least one card set")

	// ErrNegativeTime is returned when an answer reports negative time spent.
	ErrNegativeTime = errors.New("time spent must not be negative")

	// ErrNoSession is returned when a session handle is not known.
	ErrNoSession = errors.New("study session not found")
)

// InvalidOutcomeError reports an outcome outside correct, incorrect and
// skipped.
type InvalidOutcomeError struct {
	Outcome string
}

func (e *InvalidOutcomeError) Error() string {
	return fmt.Sprintf("invalid answer outcome %q (want correct, incorrect or skipped)", e.Outcome)
}

func (e *InvalidOutcomeError) Is(target error) bool { return target == ErrInvalidOutcome }
