package journal

import (
	"context"

	"github.com/parfold/parfold/internal/domain"
)

// EventJournal persists events delivered out of the flush queues and serves
// the read API. Insert receives each tick's drained batch on the delivery
// goroutine; List backs GET /api/v1/alerts.
type EventJournal interface {
	// Insert persists a batch of events. The batch is everything one tick
	// delivered for one kind; an empty batch is a no-op.
	Insert(ctx context.Context, events []domain.Event) error

	// List returns events matching the filter, newest tick first, plus the
	// total match count for pagination metadata.
	List(ctx context.Context, f domain.ListFilter) ([]domain.Event, int, error)
}
