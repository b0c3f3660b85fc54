package sparsemap

import (
	"math/bits"
	"unsafe"
)

const (
	minCapacity = groupSize

	// maxCapacity keeps numGroups*sizeof(group) well inside the address space.
	maxCapacity = uintptr(1) << (bits.UintSize*3/4 - 1)
)

// Returns the next power of 2 for the given value `v`.
// Values at or below 1 return 1.
func NextPowerOf2(v uint64) uint64 {
	if v <= 1 {
		return 1
	}

	return uint64(1) << min(bits.Len64(v-1), 63)
}

// Estimates capacity (number of slots) from the given memory size in bytes.
func CapacityFromSize[K comparable, V any](size uintptr) int {
	sizeOfGroup := unsafe.Sizeof(group[K, V]{})
	numGroups := size / sizeOfGroup

	return int(numGroups * groupSize)
}

// sizeOfStore is the number of bytes a store of the given capacity occupies.
func sizeOfStore[K comparable, V any](capacity uintptr) uintptr {
	return (capacity / groupSize) * unsafe.Sizeof(group[K, V]{})
}
