package parfold

// Bucket is one worker's private, ordered queue of pending values.
//
// A Bucket is not safe for concurrent use. The Store guarantees each bucket
// is handed to exactly one worker between two flushes, so appends need no
// locking; that single-writer invariant is the whole point of the design.
type Bucket[T any] struct {
	items []T
}

// Append adds v to the end of the bucket.
func (b *Bucket[T]) Append(v T) {
	b.items = append(b.items, v)
}

// AppendBatch adds every value in vs to the bucket, preserving order.
// Cheaper than repeated Append calls for larger batches because the
// backing array grows at most once.
func (b *Bucket[T]) AppendBatch(vs ...T) {
	b.items = append(b.items, vs...)
}

// Len returns the number of pending values.
func (b *Bucket[T]) Len() int {
	return len(b.items)
}

// take moves the pending values out and resets the bucket to empty while
// keeping the backing array, so capacity amortizes across invocations.
// The returned slice aliases that array: it is valid only until the next
// append to this bucket, which under the fork-join contract cannot happen
// before the flush that called take has completed.
func (b *Bucket[T]) take() []T {
	out := b.items
	b.items = b.items[:0]
	return out
}
