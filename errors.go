package sparsemap

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by lookups and removals of absent keys.
	ErrKeyNotFound = errors.New("sparsemap: key not found")

	// ErrUnsupportedType is returned when a key or value type tag is not recognized,
	// or when a value does not fit the bound value type.
	ErrUnsupportedType = errors.New("sparsemap: unsupported type")

	// ErrOutOfMemory is returned when the bucket store cannot be allocated.
	// The table is left unchanged.
	ErrOutOfMemory = errors.New("sparsemap: out of memory")

	// ErrValueOutOfRange is returned when an int64 key or value does not fit
	// a 32-bit binding.
	ErrValueOutOfRange = errors.New("sparsemap: value out of range")

	// ErrConcurrentModification is the panic value raised when a table is
	// mutated while one of its iterators is still being consumed.
	ErrConcurrentModification = errors.New("sparsemap: table modified during iteration")
)

// KeyError reports a missing key.
type KeyError struct {
	Key any
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %v", ErrKeyNotFound, e.Key)
}

func (e *KeyError) Unwrap() error {
	return ErrKeyNotFound
}
