package sparsemap

import "iter"

// Set is a key-only table. Values are stored as struct{}, so a group costs
// no more than its control bytes and keys.
//
// A Set is NOT goroutine-safe.
type Set[K comparable] struct {
	t *Table[K, struct{}]
}

func NewSet[K comparable](capacity int, opts ...Option[K, struct{}]) (*Set[K], error) {
	t, err := New(capacity, opts...)
	if err != nil {
		return nil, err
	}

	return &Set[K]{t: t}, nil
}

// Put adds a key to the set and reports whether it was new.
func (s *Set[K]) Put(key K) (bool, error) {
	return s.t.Insert(key, struct{}{})
}

func (s *Set[K]) Has(key K) bool {
	return s.t.Contains(key)
}

// Delete removes a key and reports whether it was present.
func (s *Set[K]) Delete(key K) bool {
	_, err := s.t.Remove(key)
	return err == nil
}

func (s *Set[K]) Len() int {
	return s.t.Len()
}

func (s *Set[K]) Reset() {
	s.t.Clear()
}

func (s *Set[K]) Stats() Stats {
	return s.t.Stats()
}

// All iterates over the keys of the set. See Table.All for the rules on
// mutation during iteration.
func (s *Set[K]) All() iter.Seq[K] {
	return s.t.Keys()
}
