package sparsemap

import "sync"

// Synchronized guards a Table with a read-write lock for callers that share
// it between goroutines. Reads take the read lock, mutations the write lock.
type Synchronized[K comparable, V any] struct {
	mu sync.RWMutex
	t  *Table[K, V]
}

func NewSynchronized[K comparable, V any](t *Table[K, V]) *Synchronized[K, V] {
	return &Synchronized[K, V]{t: t}
}

func (s *Synchronized[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.t.Get(key)
}

func (s *Synchronized[K, V]) Lookup(key K) (V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.t.Lookup(key)
}

func (s *Synchronized[K, V]) LookupOr(key K, def V) V {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.t.LookupOr(key, def)
}

func (s *Synchronized[K, V]) Contains(key K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.t.Contains(key)
}

func (s *Synchronized[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.t.Len()
}

func (s *Synchronized[K, V]) Insert(key K, value V) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.t.Insert(key, value)
}

func (s *Synchronized[K, V]) Remove(key K) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.t.Remove(key)
}

func (s *Synchronized[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.t.Clear()
}

// Range calls f for every entry while holding the read lock. f must not
// call back into s with a mutation.
func (s *Synchronized[K, V]) Range(f func(K, V) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for k, v := range s.t.All() {
		if !f(k, v) {
			return
		}
	}
}
