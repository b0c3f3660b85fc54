package sparsemap

import (
	"crypto/rand"
	"encoding/binary"
	"hash/maphash"

	"github.com/cespare/xxhash"
	"github.com/dchest/siphash"
	"github.com/spaolacci/murmur3"
)

type HashFunc[K comparable] func(K) uint64

// Integer is the set of fixed-width key types the engine binds natively.
type Integer interface {
	~int32 | ~int64 | ~uint32 | ~uint64
}

func MakeDefaultHashFunc[K comparable](seed maphash.Seed) HashFunc[K] {
	return func(k K) uint64 {
		return maphash.Comparable(seed, k)
	}
}

// Hasher selects the hash function bound to integer keys.
type Hasher uint8

const (
	HasherMaphash Hasher = iota
	HasherXXHash
	HasherMurmur3
	HasherSipHash
)

func (h Hasher) String() string {
	switch h {
	case HasherMaphash:
		return "maphash"
	case HasherXXHash:
		return "xxhash"
	case HasherMurmur3:
		return "murmur3"
	case HasherSipHash:
		return "siphash"
	default:
		return "unknown"
	}
}

// MakeIntegerHashFunc returns the hash function h for integer keys. Keys are
// widened to 64 bits and encoded little-endian, so a key hashes the same no
// matter which width it was bound with.
func MakeIntegerHashFunc[K Integer](h Hasher) (HashFunc[K], error) {
	switch h {
	case HasherMaphash:
		seed := maphash.MakeSeed()
		return func(k K) uint64 {
			return maphash.Comparable(seed, uint64(k))
		}, nil
	case HasherXXHash:
		return func(k K) uint64 {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(k))
			return xxhash.Sum64(buf[:])
		}, nil
	case HasherMurmur3:
		return func(k K) uint64 {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(k))
			return murmur3.Sum64(buf[:])
		}, nil
	case HasherSipHash:
		var key [16]byte
		if _, err := rand.Read(key[:]); err != nil {
			return nil, err
		}

		k0 := binary.LittleEndian.Uint64(key[:8])
		k1 := binary.LittleEndian.Uint64(key[8:])

		return func(k K) uint64 {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(k))
			return siphash.Hash(k0, k1, buf[:])
		}, nil
	default:
		return nil, ErrUnsupportedType
	}
}

// HashSplit splits a hash into the probe start (h1) and the 7-bit slot
// fingerprint (h2).
func HashSplit(hash uint64) (uintptr, uint8) {
	h1 := uintptr(hash >> 7)
	h2 := uint8(hash & 0x7F)

	return h1, h2
}
