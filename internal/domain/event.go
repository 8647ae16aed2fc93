package domain

import "time"

// Kind distinguishes the two event flavors the simulation emits.
type Kind string

const (
	KindAlert    Kind = "alert"
	KindRecovery Kind = "recovery"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindAlert, KindRecovery:
		return true
	}
	return false
}

// Severity grades an alert by how far past the threshold the reading went.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Alert is emitted from a worker goroutine when an entity's reading crosses
// above its threshold. Alerts are plain values with no goroutine-affine
// state, so they move freely from the worker that produced them to the
// flush coordinator.
type Alert struct {
	ID        string
	EntityID  int
	Severity  Severity
	Value     float64
	Threshold float64
	Tick      uint64
	EmittedAt time.Time
}

// Recovery is emitted when a previously-alerting entity drops back under
// its threshold.
type Recovery struct {
	ID        string
	EntityID  int
	Value     float64
	Tick      uint64
	EmittedAt time.Time
}

// Event is the flattened record both kinds reduce to for persistence and
// the read API. Severity and Threshold are only set for alerts.
type Event struct {
	ID        string    `json:"id"`
	EntityID  int       `json:"entity_id"`
	Kind      Kind      `json:"kind"`
	Severity  Severity  `json:"severity,omitempty"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold,omitempty"`
	Tick      uint64    `json:"tick"`
	EmittedAt time.Time `json:"emitted_at"`
}

// Record converts the alert to its persistable form.
func (a Alert) Record() Event {
	return Event{
		ID:        a.ID,
		EntityID:  a.EntityID,
		Kind:      KindAlert,
		Severity:  a.Severity,
		Value:     a.Value,
		Threshold: a.Threshold,
		Tick:      a.Tick,
		EmittedAt: a.EmittedAt,
	}
}

// Record converts the recovery to its persistable form.
func (r Recovery) Record() Event {
	return Event{
		ID:        r.ID,
		EntityID:  r.EntityID,
		Kind:      KindRecovery,
		Value:     r.Value,
		Tick:      r.Tick,
		EmittedAt: r.EmittedAt,
	}
}

// ListFilter narrows the read API's event listing. Zero values mean "any".
type ListFilter struct {
	Kind      Kind
	Severity  Severity
	EntityID  *int
	SinceTick *uint64
	Page      int
	Limit     int
}

// Normalize applies pagination defaults and validates the enum fields.
func (f *ListFilter) Normalize() error {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		return ErrLimitTooLarge
	}
	if f.Kind != "" && !f.Kind.IsValid() {
		return ErrInvalidKind
	}
	if f.Severity != "" && !f.Severity.IsValid() {
		return ErrInvalidSeverity
	}
	return nil
}
