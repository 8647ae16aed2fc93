package provider

import (
	"context"
	"time"
)

// FlushSummary is the per-tick digest posted to the configured webhook
// after delivery completes. Individual events stay in the journal; the
// webhook only hears that a tick happened and how much it produced.
type FlushSummary struct {
	Tick       uint64    `json:"tick"`
	Alerts     int       `json:"alerts"`
	Recoveries int       `json:"recoveries"`
	FlushedAt  time.Time `json:"flushed_at"`
}

// Provider notifies an external system about completed flushes.
type Provider interface {
	NotifyFlush(ctx context.Context, s FlushSummary) error
}

// Nop is the Provider used when no webhook is configured.
type Nop struct{}

func NewNop() Nop { return Nop{} }

func (Nop) NotifyFlush(context.Context, FlushSummary) error { return nil }
