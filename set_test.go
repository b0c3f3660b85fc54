package sparsemap

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_Put(t *testing.T) {
	ss, err := NewSet[uint64](4096)
	require.NoError(t, err)

	ok, err := ss.Put(1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = ss.Put(1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.True(t, ss.Has(1))
	require.Equal(t, 1, ss.Len())
}

func TestSet_Tombstones(t *testing.T) {
	collisionHash := func(k string) uint64 {
		return 0
	}

	ss, err := NewSet(16, WithHashFunc[string, struct{}](collisionHash))
	require.NoError(t, err)

	for _, k := range []string{"A", "B", "C"} {
		ok, err := ss.Put(k)
		require.NoError(t, err)
		require.True(t, ok)
	}

	// Delete the "bridge" element
	require.True(t, ss.Delete("B"))
	require.False(t, ss.Delete("B"))

	require.True(t, ss.Has("C"), "Probe chain broken: could not find 'C' after deleting 'B'")
	require.Equal(t, 1, ss.Stats().Tombstones)
}

func TestSet_GrowAndReset(t *testing.T) {
	ss, err := NewSet[int](0)
	require.NoError(t, err)

	for i := range 1000 {
		_, err := ss.Put(i)
		require.NoError(t, err)
	}

	keys := slices.Sorted(ss.All())
	require.Len(t, keys, 1000)
	require.Equal(t, 999, keys[999])

	ss.Reset()
	require.Equal(t, 0, ss.Len())
	require.False(t, ss.Has(10))
}
