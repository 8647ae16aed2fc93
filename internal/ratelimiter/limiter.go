package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/parfold/parfold/internal/domain"
)

// KindLimiters holds one token bucket limiter per event kind, pacing how
// fast the delivery stage pushes drained events into the journal and
// webhook. Burst is set equal to the rate so a tick can deliver up to one
// second's allowance at once but never "save up" beyond it.
type KindLimiters struct {
	limiters map[domain.Kind]*rate.Limiter
}

// New creates a KindLimiters with ratePerSec events per second per kind.
func New(ratePerSec int) *KindLimiters {
	r := rate.Limit(ratePerSec)
	burst := ratePerSec

	return &KindLimiters{
		limiters: map[domain.Kind]*rate.Limiter{
			domain.KindAlert:    rate.NewLimiter(r, burst),
			domain.KindRecovery: rate.NewLimiter(r, burst),
		},
	}
}

// WaitBatch blocks until the kind's limiter grants n tokens — one per event
// in the batch about to be delivered. Batches larger than the burst are
// split so they cannot deadlock the limiter. Returns a non-nil error only
// if ctx is cancelled while waiting.
func (kl *KindLimiters) WaitBatch(ctx context.Context, kind domain.Kind, n int) error {
	lim := kl.limiters[kind]
	for n > 0 {
		take := min(n, lim.Burst())
		if err := lim.WaitN(ctx, take); err != nil {
			return err
		}
		n -= take
	}
	return nil
}
