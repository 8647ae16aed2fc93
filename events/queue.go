// Package events provides a single-owner event queue: the destination a
// parfold flush forwards into, and the buffer downstream delivery reads
// from. One goroutine owns a Queue at any moment; it is deliberately not
// safe for concurrent use — cross-goroutine aggregation is parfold's job.
package events

// Queue is an ordered, growable buffer of events with a drain-and-reuse
// lifecycle. Send appends; Drain hands the pending events to the reader and
// resets the queue while keeping its capacity for the next cycle.
type Queue[T any] struct {
	items []T
	sent  uint64
}

// NewQueue returns an empty Queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Send appends v to the queue. It satisfies parfold.Sink.
func (q *Queue[T]) Send(v T) {
	q.items = append(q.items, v)
	q.sent++
}

// Len returns the number of events awaiting Drain.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Sent returns the total number of events ever sent to the queue.
func (q *Queue[T]) Sent() uint64 {
	return q.sent
}

// Drain returns the pending events in send order and empties the queue.
// The returned slice aliases the queue's backing array: it is valid until
// the next Send, so consume or copy it before the next cycle begins.
func (q *Queue[T]) Drain() []T {
	out := q.items
	q.items = q.items[:0]
	return out
}
