package parfold

import (
	"reflect"
	"sync"
)

// flusher is the type-erased face of a registered Collector, letting the
// Registry flush collectors of different payload types in one pass.
type flusher interface {
	flush() int
	pending() int
}

type entry[T any] struct {
	c    *Collector[T]
	sink Sink[T]
}

func (e *entry[T]) flush() int   { return e.c.Flush(e.sink) }
func (e *entry[T]) pending() int { return e.c.Pending() }

// Registry holds one Collector per payload type, each bound to its output
// sink. It replaces the implicit per-type global state a host framework
// would otherwise accumulate: lifecycle is explicit — collectors are created
// on first registration and reset (drained, capacity kept) by each flush.
type Registry struct {
	mu     sync.Mutex
	byType map[reflect.Type]flusher
	order  []flusher
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[reflect.Type]flusher)}
}

// Register returns the one Collector for payload type T, creating it and
// binding it to sink on the first call. Subsequent calls for the same T
// return the existing Collector and ignore sink, so call sites may register
// idempotently during setup. Safe for concurrent use.
func Register[T any](r *Registry, sink Sink[T]) *Collector[T] {
	key := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byType[key]; ok {
		return e.(*entry[T]).c
	}

	e := &entry[T]{c: NewCollector[T](), sink: sink}
	r.byType[key] = e
	r.order = append(r.order, e)
	return e.c
}

// FlushAll flushes every registered collector into its bound sink, in
// registration order, and returns the total number of values forwarded.
// Like Collector.Flush it must run single-threaded, after the join barrier.
func (r *Registry) FlushAll() int {
	r.mu.Lock()
	flushers := r.order
	r.mu.Unlock()

	n := 0
	for _, f := range flushers {
		n += f.flush()
	}
	return n
}

// Pending reports buffered values across all collectors awaiting flush.
func (r *Registry) Pending() int {
	r.mu.Lock()
	flushers := r.order
	r.mu.Unlock()

	n := 0
	for _, f := range flushers {
		n += f.pending()
	}
	return n
}

// Types returns the number of payload types registered.
func (r *Registry) Types() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byType)
}
