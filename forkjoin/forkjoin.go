// Package forkjoin runs a closure across a bounded set of worker slots and
// returns once every worker has finished — the join barrier the parfold
// aggregation contract requires. Hosts with their own scheduler implement
// Runner; everyone else uses Pool.
package forkjoin

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// Task is the unit of parallel work. It is invoked once per worker slot with
// the slot index, which is stable for the duration of the Run call and
// suitable as a parfold worker identity.
type Task func(ctx context.Context, worker int) error

// Runner executes a Task across a fixed number of worker slots.
//
// Run must not return before every worker has: that post-condition is what
// makes it safe to flush aggregation buffers written during the Task.
type Runner interface {
	// Workers returns the number of worker slots, fixed for the Runner's
	// lifetime. Slot indexes passed to tasks are in [0, Workers()).
	Workers() int

	// Run invokes task once per worker slot, concurrently, and blocks until
	// all invocations have returned. Errors from individual workers are
	// joined into the returned error.
	Run(ctx context.Context, task Task) error
}

// Pool is the default Runner: one goroutine per slot, joined with a
// WaitGroup. Pool is stateless between Run calls and safe for sequential
// reuse; concurrent Run calls on one Pool would hand the same slot index to
// two goroutines at once and are not supported.
type Pool struct {
	workers int
}

// NewPool returns a Pool with n worker slots. If n <= 0 the pool sizes
// itself to GOMAXPROCS.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: n}
}

func (p *Pool) Workers() int { return p.workers }

// Run spawns one goroutine per slot and waits for all of them. Per-worker
// errors are collected into fixed slots (no locking) and joined after the
// barrier.
func (p *Pool) Run(ctx context.Context, task Task) error {
	errs := make([]error, p.workers)

	var wg sync.WaitGroup
	for i := range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = task(ctx, i)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// ForEach applies fn to every element of items exactly once, distributing
// work across r's slots. Workers claim fixed-size chunks from a shared
// cursor, so a slot that draws cheap elements steals the next chunk instead
// of idling behind slower peers.
//
// The element order within a chunk is preserved; chunk-to-worker assignment
// is racy by design, so two elements processed by different workers have no
// defined relative order. A non-nil error from fn stops the erroring worker
// after its current element; other workers stop at their next chunk claim.
func ForEach[S ~[]E, E any](ctx context.Context, r Runner, items S, fn func(ctx context.Context, worker int, item E) error) error {
	if len(items) == 0 {
		return nil
	}

	chunk := chunkSize(len(items), r.Workers())
	var cursor atomic.Int64

	return r.Run(ctx, func(ctx context.Context, worker int) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			end := int(cursor.Add(int64(chunk)))
			start := end - chunk
			if start >= len(items) {
				return nil
			}
			end = min(end, len(items))

			for i := start; i < end; i++ {
				if err := fn(ctx, worker, items[i]); err != nil {
					return err
				}
			}
		}
	})
}

// chunkSize targets a handful of chunks per worker: enough granularity to
// rebalance uneven work, coarse enough that the shared cursor stays cold.
func chunkSize(n, workers int) int {
	const chunksPerWorker = 4
	return max(1, n/(workers*chunksPerWorker))
}
