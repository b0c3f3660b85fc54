package sparsemap

import (
	"encoding/binary"
	"math/bits"
)

const (
	bitsetLSB = 0x0101010101010101
	bitsetMSB = 0x8080808080808080
)

// bitset represents a set of slots within a group.
//
// The underlying representation uses one byte per slot, where each byte is
// either 0x80 if the slot is part of the set or 0x00 otherwise. This makes it
// convenient to calculate for an entire group at once (e.g. see matchEmpty).
type bitset uint64

// first returns the relative index of the first slot in the set.
//
// Returns groupSize if the bitset is empty.
func (b bitset) first() uintptr {
	return uintptr(bits.TrailingZeros64(uint64(b)) >> 3)
}

// removeFirst resets the lowest slot of the set.
func (b bitset) removeFirst() bitset {
	return b & ^(bitset(ctrlEmpty) << (bits.TrailingZeros64(uint64(b)) & ^7))
}

func (b bitset) count() int {
	return bits.OnesCount64(uint64(b))
}

// loadCtrls reads the 8 control bytes of a group as a single word, slot 0 in
// the lowest byte.
func loadCtrls(ctrls *[groupSize]uint8) uint64 {
	return binary.LittleEndian.Uint64(ctrls[:])
}

// matchH2 may report false positives for bytes adjacent to a real match;
// callers always confirm with a key comparison.
//
//go:inline
func matchH2(group uint64, h2 uint8) bitset {
	v := group ^ (bitsetLSB * uint64(h2))
	return bitset(((v - bitsetLSB) &^ v) & bitsetMSB)
}

// matchEmpty: MSB set and bit 1 clear.
// (0x80 is 10000000, bit 1 is 0. 0xFE is 11111110, bit 1 is 1)
//
//go:inline
func matchEmpty(group uint64) bitset {
	return bitset((group &^ (group << 6)) & bitsetMSB)
}

// matchEmptyOrDeleted: Just check if the MSB is 1.
//
//go:inline
func matchEmptyOrDeleted(group uint64) bitset {
	return bitset(group & bitsetMSB)
}

// matchFull: MSB clear.
//
//go:inline
func matchFull(group uint64) bitset {
	return bitset(^group & bitsetMSB)
}

// matchDeleted: MSB and bit 1 set.
//
//go:inline
func matchDeleted(group uint64) bitset {
	return bitset(group & (group << 6) & bitsetMSB)
}
