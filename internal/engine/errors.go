package engine

import "errors"

var (
	// ErrUnknownEntity is returned when a caller names a collection outside
	// the fixed entity set. It is the only hard error the engine surfaces;
	// everything I/O-bound degrades to a logged result instead.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrNotFound is returned when a referenced record, archive entry or
	// trash entry does not exist.
	ErrNotFound = errors.New("not found")
)
