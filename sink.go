package parfold

// Sink is the single-owner output channel a flush forwards into. The
// goroutine running the flush owns the sink for the duration of the call;
// implementations are not required to be safe for concurrent use.
type Sink[T any] interface {
	Send(v T)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc[T any] func(v T)

func (f SinkFunc[T]) Send(v T) { f(v) }
