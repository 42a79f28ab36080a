package sequencer

import "errors"

// The engine has exactly two failure kinds: invalid input to a chain
// constructor, and an unknown handle. Both are recoverable and leave the
// graph unchanged; the engine has no I/O and cannot fail for resource
// reasons of its own.
var (
	// ErrNoItems is returned when a chain constructor receives an empty
	// item sequence.
	ErrNoItems = errors.New("sequencer: empty item sequence")

	// ErrNoParents is returned when InsertChildChain receives an empty
	// parent set.
	ErrNoParents = errors.New("sequencer: empty parent set")

	// ErrUnknownHandle is returned when an operation references a handle
	// absent from the arena, such as the zero Handle or a handle issued
	// by a different engine instance.
	ErrUnknownHandle = errors.New("sequencer: unknown handle")
)

// IsUnknownHandle reports whether err is an unknown-handle failure.
// Handles wrapped errors.
func IsUnknownHandle(err error) bool {
	return errors.Is(err, ErrUnknownHandle)
}

// IsInvalidInput reports whether err is an invalid-input failure from a
// chain constructor. Handles wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrNoItems) || errors.Is(err, ErrNoParents)
}
