// Package parfold provides a thread-safe aggregation buffer for fork-join
// workloads: many worker goroutines append values without contending with
// each other, and a single coordinator merges everything into a single-owner
// output sink once the parallel phase has finished.
//
// The problem it solves: a host that iterates a large collection in parallel
// often needs to emit events from inside the worker closures, but the
// destination (an event queue, a channel owner, a journal) accepts writes from
// exactly one goroutine. Funnelling every write through a mutex or a channel
// reintroduces the contention the parallel iteration was supposed to remove.
//
// parfold keeps one private bucket per worker slot. Appends touch only the
// calling worker's bucket, so the hot path carries no cross-worker
// coordination beyond a read-lock on the bucket map. After the join barrier
// the coordinator drains every bucket in ascending worker order and forwards
// the contents, preserving each worker's write order, into the sink.
//
// Typical use:
//
//	reg := parfold.NewRegistry()
//	alerts := parfold.Register[Alert](reg, sink)
//
//	runner.Run(ctx, func(ctx context.Context, worker int) error {
//	    w := alerts.Writer(worker)
//	    for _, item := range partition(worker) {
//	        if item.Hot() {
//	            w.Write(Alert{Entity: item.ID})
//	        }
//	    }
//	    return nil
//	})
//
//	reg.FlushAll() // single-threaded, after Run has returned
//
// The contract callers must uphold: flushing must never race with writes.
// The external scheduler (see the forkjoin package for a default) has to
// guarantee every worker has returned before FlushAll runs. parfold does not
// detect violations of this contract at runtime; doing so would require the
// synchronization the design exists to avoid.
//
// Ordering: writes issued by one worker are flushed in the order they were
// written. No order is defined between different workers' writes.
package parfold
