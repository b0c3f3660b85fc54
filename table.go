package sparsemap

import (
	"log"
	"math"
	"reflect"
)

// Table is an open-addressing hash map built on swiss-table style groups.
// Deleted slots become tombstones, which keep probe chains intact until the
// next rehash purges them. The table grows (never shrinks) once occupied and
// tombstoned slots together would exceed the configured load factor.
//
// A Table is NOT goroutine-safe. Callers sharing one across goroutines must
// serialize access themselves, e.g. with Synchronized.
type Table[K comparable, V any] struct {
	store bucketStore[K, V]

	// Occupied slots.
	size uintptr
	// Occupied plus tombstoned slots.
	used uintptr
	// Largest value of used allowed at the current capacity.
	growthLimit uintptr

	maxLoad     float64
	memoryLimit uintptr
	hashFunc    HashFunc[K]
	release     func(V)
	logger      *log.Logger

	// Bumped on every structural change; iterators compare against it.
	mods uint64
}

// New returns an empty table able to hold at least capacity slots. Capacity
// is rounded up to a power of two and is never below one group.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Table[K, V], error) {
	c, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	t := &Table[K, V]{
		maxLoad:     c.maxLoad,
		memoryLimit: c.memoryLimit,
		hashFunc:    c.hashFunc,
		release:     c.release,
		logger:      c.logger,
	}

	store, err := allocateStore[K, V](uintptr(max(capacity, 0)), t.memoryLimit)
	if err != nil {
		return nil, err
	}

	t.setStore(store)

	return t, nil
}

// Len returns the number of keys in the table.
func (t *Table[K, V]) Len() int {
	return int(t.size)
}

// Cap returns the number of slots in the table.
func (t *Table[K, V]) Cap() int {
	return int(t.store.capacity)
}

// EffectiveCapacity returns how many slots may be used before the next insert
// of a new key triggers a rehash.
func (t *Table[K, V]) EffectiveCapacity() int {
	return int(t.growthLimit)
}

// Get returns the value stored for key.
func (t *Table[K, V]) Get(key K) (V, bool) {
	g, idx, ok := t.find(key, t.hashFunc(key))
	if !ok {
		var zero V
		return zero, false
	}

	return g.values[idx], true
}

// Lookup returns the value stored for key, or a *KeyError wrapping
// ErrKeyNotFound.
func (t *Table[K, V]) Lookup(key K) (V, error) {
	v, ok := t.Get(key)
	if !ok {
		return v, &KeyError{Key: key}
	}

	return v, nil
}

// LookupOr returns the value stored for key, or def if there is none.
func (t *Table[K, V]) LookupOr(key K, def V) V {
	if v, ok := t.Get(key); ok {
		return v
	}

	return def
}

func (t *Table[K, V]) Contains(key K) bool {
	_, _, ok := t.find(key, t.hashFunc(key))
	return ok
}

// Insert stores value under key, overwriting any previous value.
// Returns whether the key is new. The only possible error is ErrOutOfMemory,
// in which case the table is unchanged.
func (t *Table[K, V]) Insert(key K, value V) (bool, error) {
	hash := t.hashFunc(key)

	if g, idx, ok := t.find(key, hash); ok {
		old := g.values[idx]
		g.values[idx] = value
		if !sameValue(old, value) {
			t.releaseValue(old)
		}

		return false, nil
	}

	h1, h2 := HashSplit(hash)

	var (
		g   *group[K, V]
		idx uintptr
	)

	if t.store.capacity > 0 {
		g, idx = t.findInsertSlot(&t.store, h1)
	}

	// A tombstone can be reused without changing the load; only claiming an
	// empty slot may push it over the limit.
	if g == nil || (g.ctrls[idx] == ctrlEmpty && t.used+1 > t.growthLimit) {
		// Rehashing at the same capacity is enough when tombstones are the
		// reason the limit was hit.
		capacity := max(t.store.capacity, t.capacityFor(max(2*t.size, t.size+1)))
		if err := t.resize(capacity); err != nil {
			return false, err
		}

		g, idx = t.findInsertSlot(&t.store, h1)
	}

	if g.ctrls[idx] == ctrlEmpty {
		t.used++
	}

	g.ctrls[idx] = h2
	g.slots[idx] = key
	g.values[idx] = value
	t.size++
	t.mods++

	return true, nil
}

// Remove deletes key and returns its value. Ownership of the value passes to
// the caller; the release hook is not called.
func (t *Table[K, V]) Remove(key K) (V, error) {
	g, idx, ok := t.find(key, t.hashFunc(key))
	if !ok {
		var zero V
		return zero, &KeyError{Key: key}
	}

	var (
		zeroK K
		zeroV V
	)

	old := g.values[idx]

	// Mark as deleted to preserve the probe chain
	g.ctrls[idx] = ctrlDeleted
	g.slots[idx] = zeroK
	g.values[idx] = zeroV
	t.size--
	t.mods++

	return old, nil
}

// Reserve grows the table so that n keys fit without a rehash.
func (t *Table[K, V]) Reserve(n int) error {
	if n <= 0 || uintptr(n) <= t.growthLimit {
		return nil
	}

	return t.resize(t.capacityFor(uintptr(n)))
}

// Clear removes every key and tombstone but keeps the capacity.
func (t *Table[K, V]) Clear() {
	t.releaseAll()
	t.store.reset()
	t.size = 0
	t.used = 0
	t.mods++
}

// Close releases every stored value and the bucket store. The table stays
// usable: it is empty and allocates a new store on the next insert.
func (t *Table[K, V]) Close() {
	t.releaseAll()

	t.logger.Printf("sparsemap: close capacity=%d size=%d", t.store.capacity, t.size)

	t.store.release()
	t.size = 0
	t.used = 0
	t.growthLimit = 0
	t.mods++
}

func (t *Table[K, V]) find(key K, hash uint64) (*group[K, V], uintptr, bool) {
	if t.store.capacity == 0 {
		return nil, 0, false
	}

	h1, h2 := HashSplit(hash)
	mask := t.store.mask
	start := h1 & mask

	for p, offset := uintptr(0), start; p <= mask; p++ {
		g := &t.store.groups[offset]
		ctrl := loadCtrls(&g.ctrls)

		// SIMD-like match
		matches := matchH2(ctrl, h2)
		for matches != 0 {
			idx := matches.first()
			if g.slots[idx] == key {
				return g, idx, true
			}

			matches = matches.removeFirst()
		}

		// Tombstones do not end the search, only an empty slot does.
		if matchEmpty(ctrl) != 0 {
			return nil, 0, false
		}

		// Quadratic probe math
		offset = (start + (p+1)*(p+2)/2) & mask
	}

	return nil, 0, false
}

// findInsertSlot returns the first empty or tombstoned slot on the probe path
// of h1. The load limit guarantees one exists.
func (t *Table[K, V]) findInsertSlot(s *bucketStore[K, V], h1 uintptr) (*group[K, V], uintptr) {
	mask := s.mask
	start := h1 & mask

	for p, offset := uintptr(0), start; p <= mask; p++ {
		g := &s.groups[offset]

		if m := matchEmptyOrDeleted(loadCtrls(&g.ctrls)); m != 0 {
			return g, m.first()
		}

		offset = (start + (p+1)*(p+2)/2) & mask
	}

	// Unreachable while growthLimit < capacity.
	panic("sparsemap: no free slot on probe path")
}

// capacityFor returns the smallest store capacity that holds n slots under
// the load factor. Anything past maxCapacity is reported as twice
// maxCapacity, which allocateStore rejects.
func (t *Table[K, V]) capacityFor(n uintptr) uintptr {
	want := math.Ceil(float64(n) / t.maxLoad)
	if want > float64(maxCapacity) {
		return maxCapacity << 1
	}

	capacity := max(uintptr(NextPowerOf2(uint64(want))), minCapacity)

	for capacity <= maxCapacity && t.limitFor(capacity) < n {
		capacity <<= 1
	}

	return capacity
}

func (t *Table[K, V]) limitFor(capacity uintptr) uintptr {
	return uintptr(float64(capacity) * t.maxLoad)
}

// resize moves every occupied slot into a fresh store of the given capacity,
// dropping tombstones. On allocation failure the table is left as it was.
func (t *Table[K, V]) resize(capacity uintptr) error {
	fresh, err := t.store.growTo(capacity, t.memoryLimit)
	if err != nil {
		t.logger.Printf("sparsemap: resize capacity=%d->%d failed: %v", t.store.capacity, capacity, err)
		return err
	}

	old := t.store
	tombstones := t.used - t.size

	for i := range old.groups {
		g := &old.groups[i]

		full := matchFull(loadCtrls(&g.ctrls))
		for full != 0 {
			idx := full.first()
			key := g.slots[idx]
			h1, h2 := HashSplit(t.hashFunc(key))

			ng, nidx := t.findInsertSlot(&fresh, h1)
			ng.ctrls[nidx] = h2
			ng.slots[nidx] = key
			ng.values[nidx] = g.values[idx]

			full = full.removeFirst()
		}
	}

	t.logger.Printf("sparsemap: resize capacity=%d->%d size=%d tombstones=%d",
		old.capacity, fresh.capacity, t.size, tombstones)

	t.setStore(fresh)
	old.release()
	t.used = t.size
	t.mods++

	return nil
}

func (t *Table[K, V]) setStore(s bucketStore[K, V]) {
	t.store = s
	t.growthLimit = t.limitFor(s.capacity)
}

func (t *Table[K, V]) releaseValue(v V) {
	if t.release != nil {
		t.release(v)
	}
}

func (t *Table[K, V]) releaseAll() {
	if t.release == nil {
		return
	}

	for _, v := range t.All() {
		t.release(v)
	}
}

// sameValue reports whether a and b are the same comparable value, e.g. the
// same pointer. Values whose dynamic type cannot be compared are never the
// same.
func sameValue[V any](a, b V) bool {
	x, y := any(a), any(b)
	if x == nil || y == nil {
		return x == y
	}

	vx := reflect.ValueOf(x)
	if vx.Type() != reflect.TypeOf(y) || !vx.Comparable() {
		return false
	}

	return x == y
}
