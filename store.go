package sparsemap

import "fmt"

// bucketStore is the contiguous slot storage of a table. It knows nothing
// about hashing; it only owns memory.
type bucketStore[K comparable, V any] struct {
	groups   []group[K, V]
	capacity uintptr
	// numGroups-1, used to wrap probe offsets.
	mask uintptr
}

// allocateStore returns a store of capacity slots (rounded up to a power of
// two, at least one group), all empty.
func allocateStore[K comparable, V any](capacity, limit uintptr) (bucketStore[K, V], error) {
	capacity = max(uintptr(NextPowerOf2(uint64(capacity))), minCapacity)
	if capacity > maxCapacity {
		return bucketStore[K, V]{}, fmt.Errorf("%w: capacity %d exceeds %d", ErrOutOfMemory, capacity, maxCapacity)
	}

	if size := sizeOfStore[K, V](capacity); limit > 0 && size > limit {
		return bucketStore[K, V]{}, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrOutOfMemory, size, limit)
	}

	numGroups := capacity / groupSize
	s := bucketStore[K, V]{
		groups:   make([]group[K, V], numGroups),
		capacity: capacity,
		mask:     numGroups - 1,
	}

	for i := range s.groups {
		s.groups[i].ctrls = emptyCtrls
	}

	return s, nil
}

// growTo allocates the store a rehash will move into. The receiver is left
// intact so a failed allocation or an unfinished rehash never touches it.
func (s *bucketStore[K, V]) growTo(capacity, limit uintptr) (bucketStore[K, V], error) {
	return allocateStore[K, V](capacity, limit)
}

// release drops the store's memory.
func (s *bucketStore[K, V]) release() {
	s.groups = nil
	s.capacity = 0
	s.mask = 0
}

// reset marks every slot empty, dropping stored keys and values.
func (s *bucketStore[K, V]) reset() {
	for i := range s.groups {
		s.groups[i].reset()
	}
}
