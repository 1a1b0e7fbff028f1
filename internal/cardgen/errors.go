package cardgen

import "errors"

var (
	// ErrNoCards is returned when the model produced no usable card.
	ErrNoCards = errors.New("no usable cards generated")

	// ErrEmptyInput is returned for blank source content.
	ErrEmptyInput = errors.New("source content is empty")

	// ErrInputTooLarge is returned when the source content exceeds
	// MaxInputChars. No provider call is made.
	ErrInputTooLarge = errors.New("source content too large")
)
