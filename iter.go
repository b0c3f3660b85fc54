package sparsemap

import "iter"

// All returns an iterator over every key and value in the table, in slot
// order. Each range over the result walks the table afresh.
//
// Overwriting the value of an existing key during iteration is allowed. Any
// other mutation (inserting a new key, Remove, Clear, Close or a rehash)
// invalidates the walk, and the iterator panics with ErrConcurrentModification
// on its next step.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		groups := t.store.groups
		mods := t.mods

		for i := range groups {
			g := &groups[i]

			// Match full entries which have a high-bit of zero.
			full := matchFull(loadCtrls(&g.ctrls))
			for full != 0 {
				idx := full.first()
				if !yield(g.slots[idx], g.values[idx]) {
					return
				}

				if t.mods != mods {
					panic(ErrConcurrentModification)
				}

				full = full.removeFirst()
			}
		}
	}
}

// Keys returns an iterator over the keys of the table. See All for the rules
// on mutation during iteration.
func (t *Table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range t.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the values of the table. See All for the
// rules on mutation during iteration.
func (t *Table[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range t.All() {
			if !yield(v) {
				return
			}
		}
	}
}
