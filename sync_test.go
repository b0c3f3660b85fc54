package sparsemap

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSynchronized(t *testing.T) {
	s := NewSynchronized(newTable[int64, int64](t, 0))

	const (
		writers = 4
		perG    = 2_000
	)

	var g errgroup.Group

	for w := range int64(writers) {
		g.Go(func() error {
			for i := range int64(perG) {
				if _, err := s.Insert(w*perG+i, i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	for range 4 {
		g.Go(func() error {
			for i := range int64(perG) {
				_ = s.Contains(i)
				_ = s.LookupOr(i, -1)
				_ = s.Len()
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
	require.Equal(t, writers*perG, s.Len())

	// Concurrent removers each own a disjoint key range.
	for w := range int64(writers) {
		g.Go(func() error {
			for i := int64(0); i < perG; i += 2 {
				if _, err := s.Remove(w*perG + i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
	require.Equal(t, writers*perG/2, s.Len())

	n := 0
	s.Range(func(k, v int64) bool {
		require.Equal(t, k%perG, v)
		n++
		return true
	})
	require.Equal(t, s.Len(), n)

	v, ok := s.Get(1)
	require.True(t, ok)
	require.Equal(t, int64(1), v)

	_, err := s.Lookup(0)
	require.ErrorIs(t, err, ErrKeyNotFound)

	s.Clear()
	require.Equal(t, 0, s.Len())
}
