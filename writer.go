package parfold

import "cmp"

// Writer is the handle worker code appends through. It is a small value —
// a store reference plus the owning worker's identity — so it can be copied
// freely and passed into closures. Writers carry no buffered state of their
// own; every call resolves the worker's bucket in the store.
//
// Any number of Writers may be used simultaneously from different workers.
// The Writer serializes nothing itself: safety comes from each worker only
// ever writing through a handle bound to its own identity.
type Writer[K cmp.Ordered, T any] struct {
	store *Store[K, T]
	key   K
}

// NewWriter returns a handle that appends to key's bucket in store.
func NewWriter[K cmp.Ordered, T any](store *Store[K, T], key K) Writer[K, T] {
	return Writer[K, T]{store: store, key: key}
}

// Write appends v to the owning worker's bucket, creating the bucket on the
// worker's first write. It never fails and never blocks beyond the bounded
// insert synchronization of that first write.
func (w Writer[K, T]) Write(v T) {
	w.store.GetOrCreate(w.key).Append(v)
}

// WriteBatch appends every value in vs in order. More efficient than
// calling Write in a loop when the batch size is known.
func (w Writer[K, T]) WriteBatch(vs ...T) {
	if len(vs) == 0 {
		return
	}
	w.store.GetOrCreate(w.key).AppendBatch(vs...)
}
