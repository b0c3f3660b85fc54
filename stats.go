package sparsemap

type Stats struct {
	Size                    int
	Tombstones              int
	Capacity                int
	EffectiveCapacity       int
	LoadFactor              float32
	TombstonesCapacityRatio float32
	TombstonesSizeRatio     float32
}

func (t *Table[K, V]) Stats() Stats {
	s := Stats{
		Size:              int(t.size),
		Tombstones:        int(t.used - t.size),
		Capacity:          int(t.store.capacity),
		EffectiveCapacity: int(t.growthLimit),
	}

	if s.Capacity > 0 {
		s.LoadFactor = float32(t.used) / float32(s.Capacity)
		s.TombstonesCapacityRatio = float32(s.Tombstones) / float32(s.Capacity)
	}

	if s.Size > 0 {
		s.TombstonesSizeRatio = float32(s.Tombstones) / float32(s.Size)
	}

	return s
}
