package sparsemap

import (
	"fmt"
	"iter"
	"log"
	"math"
)

// IIMap is an integer-keyed map whose key and value representation is chosen
// at run time from a pair of type tags. Keys cross the interface as int64 and
// values as any; both are narrowed to the bound representation once, on the
// way in.
//
// Like Table, an IIMap is not goroutine-safe.
type IIMap interface {
	Binding() Binding

	// Set stores value under key, overwriting any previous value.
	Set(key int64, value any) error
	// Get returns the value stored for key, or a *KeyError.
	Get(key int64) (any, error)
	// GetOr returns the value stored for key, or def.
	GetOr(key int64, def any) any
	// Delete removes key and releases its value, or returns a *KeyError if
	// it is absent.
	Delete(key int64) error
	Contains(key int64) bool
	Len() int

	Keys() iter.Seq[int64]
	Items() iter.Seq2[int64, any]

	// Close releases every stored value and the underlying storage.
	Close()
}

type mapConfig struct {
	capacity    int
	hasher      Hasher
	maxLoad     float64
	memoryLimit uintptr
	release     func(any)
	logger      *log.Logger
}

type MapOption func(c *mapConfig)

// MapCapacity sets the initial number of slots.
func MapCapacity(n int) MapOption {
	return func(c *mapConfig) { c.capacity = n }
}

// MapHasher selects the key hash function.
func MapHasher(h Hasher) MapOption {
	return func(c *mapConfig) { c.hasher = h }
}

func MapMaxLoad(load float64) MapOption {
	return func(c *mapConfig) { c.maxLoad = load }
}

func MapMemoryLimit(bytes uintptr) MapOption {
	return func(c *mapConfig) { c.memoryLimit = bytes }
}

// MapReleaseFunc is called with every reference the map drops on overwrite,
// Delete or Close. Only used by ValueRef bindings.
func MapReleaseFunc(f func(any)) MapOption {
	return func(c *mapConfig) { c.release = f }
}

func MapLogger(l *log.Logger) MapOption {
	return func(c *mapConfig) { c.logger = l }
}

// NewIIMap builds a map for the given key and value tags ('L' int64, 'I'
// int32, and 'O' references for values). An unknown tag fails with
// ErrUnsupportedType.
func NewIIMap(keyTag, valueTag byte, opts ...MapOption) (IIMap, error) {
	b, err := ParseBinding(keyTag, valueTag)
	if err != nil {
		return nil, err
	}

	var c mapConfig
	for _, opt := range opts {
		opt(&c)
	}

	switch b {
	case Binding{KeyInt64, ValueInt64}:
		return newIIMap(b, c, narrowKey[int64], narrowValue[int64])
	case Binding{KeyInt64, ValueInt32}:
		return newIIMap(b, c, narrowKey[int64], narrowValue[int32])
	case Binding{KeyInt64, ValueRef}:
		return newIIMap(b, c, narrowKey[int64], refValue)
	case Binding{KeyInt32, ValueInt64}:
		return newIIMap(b, c, narrowKey[int32], narrowValue[int64])
	case Binding{KeyInt32, ValueInt32}:
		return newIIMap(b, c, narrowKey[int32], narrowValue[int32])
	case Binding{KeyInt32, ValueRef}:
		return newIIMap(b, c, narrowKey[int32], refValue)
	default:
		return nil, fmt.Errorf("%w: binding %s", ErrUnsupportedType, b)
	}
}

type iimap[K int32 | int64, V any] struct {
	binding Binding
	table   *Table[K, V]
	key     func(int64) (K, error)
	value   func(any) (V, error)
}

func newIIMap[K int32 | int64, V any](
	b Binding,
	c mapConfig,
	key func(int64) (K, error),
	value func(any) (V, error),
) (IIMap, error) {
	opts := []Option[K, V]{
		WithHasher[K, V](c.hasher),
		WithMemoryLimit[K, V](c.memoryLimit),
		WithLogger[K, V](c.logger),
	}

	if c.maxLoad != 0 {
		opts = append(opts, WithMaxLoad[K, V](c.maxLoad))
	}

	if release := c.release; release != nil && b.Value == ValueRef {
		opts = append(opts, WithReleaseFunc[K, V](func(v V) { release(v) }))
	}

	t, err := New(c.capacity, opts...)
	if err != nil {
		return nil, err
	}

	return &iimap[K, V]{binding: b, table: t, key: key, value: value}, nil
}

func (m *iimap[K, V]) Binding() Binding {
	return m.binding
}

func (m *iimap[K, V]) Set(key int64, value any) error {
	k, err := m.key(key)
	if err != nil {
		return err
	}

	v, err := m.value(value)
	if err != nil {
		return err
	}

	_, err = m.table.Insert(k, v)
	return err
}

func (m *iimap[K, V]) Get(key int64) (any, error) {
	k, err := m.key(key)
	if err != nil {
		// A key that does not fit the binding can never have been stored.
		return nil, &KeyError{Key: key}
	}

	v, ok := m.table.Get(k)
	if !ok {
		return nil, &KeyError{Key: key}
	}

	return v, nil
}

func (m *iimap[K, V]) GetOr(key int64, def any) any {
	v, err := m.Get(key)
	if err != nil {
		return def
	}

	return v
}

func (m *iimap[K, V]) Delete(key int64) error {
	k, err := m.key(key)
	if err != nil {
		return &KeyError{Key: key}
	}

	v, err := m.table.Remove(k)
	if err != nil {
		return &KeyError{Key: key}
	}

	// The removed value is not handed back, so the map still owns it.
	m.table.releaseValue(v)

	return nil
}

func (m *iimap[K, V]) Contains(key int64) bool {
	k, err := m.key(key)
	if err != nil {
		return false
	}

	return m.table.Contains(k)
}

func (m *iimap[K, V]) Len() int {
	return m.table.Len()
}

func (m *iimap[K, V]) Keys() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for k := range m.table.Keys() {
			if !yield(int64(k)) {
				return
			}
		}
	}
}

func (m *iimap[K, V]) Items() iter.Seq2[int64, any] {
	return func(yield func(int64, any) bool) {
		for k, v := range m.table.All() {
			if !yield(int64(k), v) {
				return
			}
		}
	}
}

func (m *iimap[K, V]) Close() {
	m.table.Close()
}

func narrowKey[K int32 | int64](key int64) (K, error) {
	k := K(key)
	if int64(k) != key {
		return 0, fmt.Errorf("%w: key %d", ErrValueOutOfRange, key)
	}

	return k, nil
}

func narrowValue[V int32 | int64](value any) (V, error) {
	var wide int64

	switch x := value.(type) {
	case int:
		wide = int64(x)
	case int8:
		wide = int64(x)
	case int16:
		wide = int64(x)
	case int32:
		wide = int64(x)
	case int64:
		wide = x
	case uint8:
		wide = int64(x)
	case uint16:
		wide = int64(x)
	case uint32:
		wide = int64(x)
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: value %d", ErrValueOutOfRange, x)
		}
		wide = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: value %d", ErrValueOutOfRange, x)
		}
		wide = int64(x)
	default:
		return 0, fmt.Errorf("%w: value of type %T", ErrUnsupportedType, value)
	}

	v := V(wide)
	if int64(v) != wide {
		return 0, fmt.Errorf("%w: value %d", ErrValueOutOfRange, wide)
	}

	return v, nil
}

func refValue(value any) (any, error) {
	return value, nil
}
