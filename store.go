package parfold

import (
	"cmp"
	"maps"
	"slices"
	"sync"
)

// Store maps worker identity to that worker's private Bucket.
//
// Only the insert path (a worker's first write) is synchronized. Once a
// worker's bucket exists, lookups take the read lock — shared, effectively
// uncontended — and appends to the bucket itself involve no locking at all,
// because no other worker ever touches it.
//
// Drain must only be called when no worker can be appending; the fork-join
// barrier supplied by the caller is what makes that true.
type Store[K cmp.Ordered, T any] struct {
	mu      sync.RWMutex
	buckets map[K]*Bucket[T]
}

// NewStore returns an empty Store.
func NewStore[K cmp.Ordered, T any]() *Store[K, T] {
	return &Store[K, T]{buckets: make(map[K]*Bucket[T])}
}

// GetOrCreate returns the bucket owned by key, creating an empty one on the
// first call for that key. Safe to call concurrently from many workers with
// distinct keys; a worker only ever calls it with its own identity.
func (s *Store[K, T]) GetOrCreate(key K) *Bucket[T] {
	s.mu.RLock()
	b := s.buckets[key]
	s.mu.RUnlock()
	if b != nil {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check: another goroutine may have inserted between the unlock
	// and the lock. Required for correctness when two handles share a key,
	// and harmless in the normal one-key-per-worker case.
	if b = s.buckets[key]; b == nil {
		b = &Bucket[T]{}
		s.buckets[key] = b
	}
	return b
}

// Drained is the contents of one bucket removed by Drain.
type Drained[K cmp.Ordered, T any] struct {
	Key   K
	Items []T
}

// Drain removes the pending values from every bucket and returns them in
// ascending key order, so a single drain always produces a reproducible
// sequence. Buckets stay allocated but empty; their capacity is reused by
// the next invocation.
//
// The Items slices alias each bucket's backing array and are valid only
// until the corresponding worker writes again. Callers must finish
// consuming (or copy) before the next parallel phase starts — the same
// barrier that makes Drain safe to call makes this trivial to uphold.
func (s *Store[K, T]) Drain() []Drained[K, T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buckets) == 0 {
		return nil
	}

	out := make([]Drained[K, T], 0, len(s.buckets))
	for _, key := range slices.Sorted(maps.Keys(s.buckets)) {
		b := s.buckets[key]
		if b.Len() == 0 {
			continue
		}
		out = append(out, Drained[K, T]{Key: key, Items: b.take()})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Buckets returns the number of buckets currently allocated, including
// empty ones. Intended for observability, not for flow control.
func (s *Store[K, T]) Buckets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets)
}

// Pending returns the total number of buffered values across all buckets.
// Only meaningful when no worker is concurrently appending.
func (s *Store[K, T]) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, b := range s.buckets {
		n += b.Len()
	}
	return n
}
