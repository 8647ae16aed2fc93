package journal

import (
	"context"
	"sort"
	"sync"

	"github.com/parfold/parfold/internal/domain"
)

// MemJournal is a hand-written, in-memory EventJournal. It backs the server
// when no DATABASE_URL is configured and doubles as the test double — no
// mock-generation library needed.
type MemJournal struct {
	mu     sync.RWMutex
	events []domain.Event

	// Optional error override — set in tests to simulate failure paths.
	InsertErr error
}

func NewMemJournal() *MemJournal {
	return &MemJournal{}
}

func (m *MemJournal) Insert(_ context.Context, events []domain.Event) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MemJournal) List(_ context.Context, f domain.ListFilter) ([]domain.Event, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]domain.Event, 0, len(m.events))
	for _, e := range m.events {
		if f.Kind != "" && e.Kind != f.Kind {
			continue
		}
		if f.Severity != "" && e.Severity != f.Severity {
			continue
		}
		if f.EntityID != nil && e.EntityID != *f.EntityID {
			continue
		}
		if f.SinceTick != nil && e.Tick < *f.SinceTick {
			continue
		}
		matched = append(matched, e)
	}

	// Newest tick first, matching the Postgres journal's ordering.
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Tick > matched[j].Tick })

	total := len(matched)
	start := (f.Page - 1) * f.Limit
	if start >= total {
		return nil, total, nil
	}
	end := min(start+f.Limit, total)
	return matched[start:end], total, nil
}

// Len returns the number of persisted events.
func (m *MemJournal) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}
