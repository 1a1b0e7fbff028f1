package stats

import "errors"

// ErrCardSetNotFound is returned when stats are requested for a card set
// that does not exist.
var ErrCardSetNotFound = errors.New("card set not found")
