package sparsemap

import (
	"fmt"

	bbs "github.com/bits-and-blooms/bitset"
)

// Verify walks the whole store and checks the table invariants: the
// occupied and tombstone counters match the control bytes, the load stays
// under the limit, no empty slot lies on the probe path of a stored key, and
// every stored key is found in its own slot. It is meant for tests and
// debugging and does not modify the table.
func (t *Table[K, V]) Verify() error {
	var (
		occupied   uintptr
		tombstones uintptr
		// Slots some stored key's probe walks past before reaching its group.
		onPath = bbs.New(uint(t.store.capacity))
	)

	mask := t.store.mask

	for gi := range t.store.groups {
		g := &t.store.groups[gi]
		ctrl := loadCtrls(&g.ctrls)

		tombstones += uintptr(matchDeleted(ctrl).count())

		full := matchFull(ctrl)
		for full != 0 {
			idx := full.first()
			occupied++

			h1, _ := HashSplit(t.hashFunc(g.slots[idx]))
			start := h1 & mask

			for p, offset := uintptr(0), start; offset != uintptr(gi); p++ {
				for i := range uintptr(groupSize) {
					onPath.Set(uint(offset*groupSize + i))
				}

				offset = (start + (p+1)*(p+2)/2) & mask
			}

			full = full.removeFirst()
		}
	}

	for i, ok := onPath.NextSet(0); ok; i, ok = onPath.NextSet(i + 1) {
		if t.store.groups[i/groupSize].ctrls[i%groupSize] == ctrlEmpty {
			return fmt.Errorf("sparsemap: empty slot %d breaks a probe chain", i)
		}
	}

	for gi := range t.store.groups {
		g := &t.store.groups[gi]

		full := matchFull(loadCtrls(&g.ctrls))
		for full != 0 {
			idx := full.first()
			key := g.slots[idx]
			slot := uintptr(gi)*groupSize + idx

			fg, fidx, ok := t.find(key, t.hashFunc(key))
			if !ok {
				return fmt.Errorf("sparsemap: key %v in slot %d is unreachable", key, slot)
			}

			if fg != g || fidx != idx {
				return fmt.Errorf("sparsemap: key %v in slot %d is shadowed by another slot", key, slot)
			}

			full = full.removeFirst()
		}
	}

	if occupied != t.size {
		return fmt.Errorf("sparsemap: %d occupied slots, size says %d", occupied, t.size)
	}

	if occupied+tombstones != t.used {
		return fmt.Errorf("sparsemap: %d used slots, counter says %d", occupied+tombstones, t.used)
	}

	if t.used > t.growthLimit {
		return fmt.Errorf("sparsemap: %d used slots exceed the limit of %d", t.used, t.growthLimit)
	}

	return nil
}
