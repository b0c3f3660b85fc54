package sparsemap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerify_Healthy(t *testing.T) {
	tt := newTable[int, int](t, 0)
	require.NoError(t, tt.Verify())

	for i := range 500 {
		_, err := tt.Insert(i, i)
		require.NoError(t, err)
	}

	for i := 0; i < 500; i += 7 {
		_, err := tt.Remove(i)
		require.NoError(t, err)
	}

	require.NoError(t, tt.Verify())
}

func TestVerify_DetectsCorruption(t *testing.T) {
	t.Run("size", func(t *testing.T) {
		tt := newTable[int, int](t, 16)
		_, err := tt.Insert(1, 1)
		require.NoError(t, err)

		tt.size++
		require.ErrorContains(t, tt.Verify(), "occupied slots")
	})

	t.Run("used", func(t *testing.T) {
		tt := newTable[int, int](t, 16)
		_, err := tt.Insert(1, 1)
		require.NoError(t, err)

		tt.used++
		require.ErrorContains(t, tt.Verify(), "used slots")
	})

	t.Run("duplicate", func(t *testing.T) {
		tt := newTable(t, 16, WithHashFunc[int, int](func(int) uint64 { return 0 }))
		_, err := tt.Insert(1, 1)
		require.NoError(t, err)

		// Plant a second copy of key 1 behind the first one.
		g := &tt.store.groups[0]
		g.ctrls[1] = g.ctrls[0]
		g.slots[1] = 1
		tt.size++
		tt.used++

		require.ErrorContains(t, tt.Verify(), "shadowed")
	})

	t.Run("broken chain", func(t *testing.T) {
		tt := newTable(t, 16, WithHashFunc[int, int](func(int) uint64 { return 0 }))

		// Nine colliding keys: group 0 fills up and key 8 spills into group 1.
		for i := range 9 {
			_, err := tt.Insert(i, i)
			require.NoError(t, err)
		}
		require.NoError(t, tt.Verify())

		// A removal that empties the slot instead of leaving a tombstone.
		g := &tt.store.groups[0]
		g.ctrls[3] = ctrlEmpty
		g.slots[3] = 0
		tt.size--
		tt.used--

		require.ErrorContains(t, tt.Verify(), "empty slot 3 breaks a probe chain")
	})

	t.Run("stray key", func(t *testing.T) {
		tt := newTable(t, 16, WithHashFunc[int, int](func(int) uint64 { return 0 }))

		// Key 1 belongs to group 0, which has empty slots, so a copy in
		// group 1 can never be found.
		g := &tt.store.groups[1]
		g.ctrls[0] = 0
		g.slots[0] = 1
		tt.size++
		tt.used++

		require.ErrorContains(t, tt.Verify(), "breaks a probe chain")
	})

	t.Run("unreachable", func(t *testing.T) {
		tt := newTable(t, 16, WithHashFunc[int, int](func(int) uint64 { return 0 }))
		_, err := tt.Insert(1, 1)
		require.NoError(t, err)

		// The fingerprint no longer matches the key's hash.
		tt.store.groups[0].ctrls[0] = 5

		require.ErrorContains(t, tt.Verify(), "unreachable")
	})
}
