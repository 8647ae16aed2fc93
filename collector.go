package parfold

// Collector ties a worker-slot-keyed Store to the flush side for one payload
// type. It is the unit a host wires per event type: workers obtain Writers
// from it during the parallel phase, and the owner of the output sink calls
// Flush after the join barrier.
//
// Worker identity is the slot index assigned by the scheduler rather than a
// goroutine or OS thread token; slots are stable for the duration of a run
// and cheap to key a map with.
type Collector[T any] struct {
	store *Store[int, T]
}

// NewCollector returns a Collector with an empty store. The store lives as
// long as the Collector, so bucket capacity amortizes across every
// invocation that reuses it.
func NewCollector[T any]() *Collector[T] {
	return &Collector[T]{store: NewStore[int, T]()}
}

// Writer returns the handle for the given worker slot. Handles are values;
// requesting one per parallel phase (or per call) costs nothing beyond the
// bucket lookup each Write performs anyway.
func (c *Collector[T]) Writer(worker int) Writer[int, T] {
	return NewWriter(c.store, worker)
}

// Flush drains every bucket in ascending slot order and forwards each value,
// in its worker's write order, into sink. It returns the number of values
// forwarded. Buckets remain allocated but empty afterwards, so a subsequent
// Flush with no intervening writes forwards nothing.
//
// Flush must run on the goroutine that owns sink, strictly after every
// worker holding a Writer has returned. Each value written since the
// previous Flush is forwarded exactly once.
func (c *Collector[T]) Flush(sink Sink[T]) int {
	n := 0
	for _, d := range c.store.Drain() {
		for _, v := range d.Items {
			sink.Send(v)
		}
		n += len(d.Items)
	}
	return n
}

// Pending reports the number of buffered values awaiting the next Flush.
// Only meaningful between parallel phases.
func (c *Collector[T]) Pending() int {
	return c.store.Pending()
}
