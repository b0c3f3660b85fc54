package sparsemap

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestNextPowerOf2(t *testing.T) {
	tests := []struct {
		in, want uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{8, 8},
		{9, 16},
		{1000, 1024},
		{1 << 40, 1 << 40},
		{1<<40 + 1, 1 << 41},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, NextPowerOf2(tt.in), "NextPowerOf2(%d)", tt.in)
	}
}

func TestCapacityFromSize(t *testing.T) {
	t.Run("int,int", func(t *testing.T) {
		sizeOfGroup := unsafe.Sizeof(group[int, int]{})

		tests := []struct {
			name string
			size uintptr
			want int
		}{
			{"zero", 0, 0},
			{"less than one group", sizeOfGroup - 1, 0},
			{"exactly one group", sizeOfGroup, 8},
			{"one and a half groups", sizeOfGroup + sizeOfGroup/2, 8},
			{"two groups", sizeOfGroup * 2, 16},
			{"ten groups", sizeOfGroup * 10, 80},
			{"1KB", 1024, int(1024/sizeOfGroup) * 8},
			{"1MB", 1024 * 1024, int(1024*1024/sizeOfGroup) * 8},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got := CapacityFromSize[int, int](tt.size)
				require.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("int64,any", func(t *testing.T) {
		sizeOfGroup := unsafe.Sizeof(group[int64, any]{})

		got := CapacityFromSize[int64, any](sizeOfGroup * 5)
		require.Equal(t, 40, got)
	})

	t.Run("usage with WithMemoryLimit", func(t *testing.T) {
		// A store sized from the limit fits it exactly.
		limit := unsafe.Sizeof(group[int, int]{}) * 4

		capacity := CapacityFromSize[int, int](limit)
		require.Equal(t, 32, capacity)

		tt, err := New(capacity, WithMemoryLimit[int, int](limit))
		require.NoError(t, err)
		require.Equal(t, 32, tt.Cap())
		require.Equal(t, limit, sizeOfStore[int, int](uintptr(tt.Cap())))
	})
}
