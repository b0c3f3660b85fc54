package sparsemap

import (
	"fmt"
	"hash/maphash"
	"io"
	"log"
)

const (
	// DefaultMaxLoad is the default ceiling of (occupied+tombstones)/capacity.
	DefaultMaxLoad = 0.7

	maxMaxLoad = 0.95
)

type config[K comparable, V any] struct {
	hashFunc    HashFunc[K]
	maxLoad     float64
	memoryLimit uintptr
	release     func(V)
	logger      *log.Logger

	err error
}

type Option[K comparable, V any] func(c *config[K, V])

// Override default hash function.
func WithHashFunc[K comparable, V any](f HashFunc[K]) Option[K, V] {
	return func(c *config[K, V]) {
		c.hashFunc = f
	}
}

// Bind one of the built-in integer hash functions.
func WithHasher[K Integer, V any](h Hasher) Option[K, V] {
	return func(c *config[K, V]) {
		f, err := MakeIntegerHashFunc[K](h)
		if err != nil {
			c.err = fmt.Errorf("%w: hasher %d", err, h)
			return
		}

		c.hashFunc = f
	}
}

// WithMaxLoad sets the load factor above which the table grows.
// Must be in (0, 0.95].
func WithMaxLoad[K comparable, V any](load float64) Option[K, V] {
	return func(c *config[K, V]) {
		if !(load > 0 && load <= maxMaxLoad) {
			c.err = fmt.Errorf("sparsemap: max load %v out of (0, %v]", load, maxMaxLoad)
			return
		}

		c.maxLoad = load
	}
}

// WithMemoryLimit caps the size of the bucket store in bytes. Growing past
// the limit fails with ErrOutOfMemory. Zero means no limit.
func WithMemoryLimit[K comparable, V any](bytes uintptr) Option[K, V] {
	return func(c *config[K, V]) {
		c.memoryLimit = bytes
	}
}

// WithReleaseFunc registers a hook called whenever the table gives up
// ownership of a value it still holds: on overwrite, Clear and Close.
// Values returned by Remove are handed to the caller instead.
func WithReleaseFunc[K comparable, V any](f func(V)) Option[K, V] {
	return func(c *config[K, V]) {
		c.release = f
	}
}

// WithLogger sets the logger used for resize and lifecycle events.
func WithLogger[K comparable, V any](l *log.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		c.logger = l
	}
}

func newConfig[K comparable, V any](opts ...Option[K, V]) (config[K, V], error) {
	c := config[K, V]{maxLoad: DefaultMaxLoad}

	for _, opt := range opts {
		opt(&c)
		if c.err != nil {
			return c, c.err
		}
	}

	if c.hashFunc == nil {
		c.hashFunc = MakeDefaultHashFunc[K](maphash.MakeSeed())
	}

	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}

	return c, nil
}
