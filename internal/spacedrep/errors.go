package spacedrep

import (
	"errors"
	"fmt"
)

// ErrProgressNotFound matches every *ProgressNotFoundError.
var ErrProgressNotFound = errors.New("card progress not found")

// ProgressNotFoundError is returned when a card has no progress record.
// Every card gets one when it is added to a set, so this signals a caller
// bug or a concurrent delete.
type ProgressNotFoundError struct {
	CardSetID string
	CardID    string
}

func (e *ProgressNotFoundError) Error() string {
	return fmt.Sprintf("progress for card %s in set %s not found", e.CardID, e.CardSetID)
}

func (e *ProgressNotFoundError) Is(target error) bool { return target == ErrProgressNotFound }
