package pattern

import (
	"errors"
	"log"
)

var (
	// DefaultExitFn is invoked by functions and methods ending in
	// the "OrExit" suffix when an error occurs.
	DefaultExitFn = func(err error) {
		log.Fatalln(err)
	}
)

var (
	// ErrInvalidLength is returned when a negative (or, for
	// streaming writes, non-positive) length is requested.
	ErrInvalidLength = errors.New("invalid pattern length")

	// ErrOutOfRange is returned when a request would go past
	// the end of the pattern's enumeration (MaxLen bytes).
	ErrOutOfRange = errors.New("pattern length exceeds enumeration capacity")

	// ErrFragmentTooShort is returned when a fragment is too short
	// to contain a full block.
	ErrFragmentTooShort = errors.New("fragment is shorter than one block")

	// ErrNotFound is returned when a fragment does not originate
	// from the pattern.
	ErrNotFound = errors.New("fragment not found in pattern")

	// ErrInvalidFragment is returned when a fragment string
	// cannot be parsed.
	ErrInvalidFragment = errors.New("invalid fragment")
)
