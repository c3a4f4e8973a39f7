package server

import "sync/atomic"

// Lifecycle tracks the process drain state. It is constructed in main and
// injected wherever the accept/reject decision is made, so tests can build
// independent instances. The transition to draining is irreversible and
// idempotent; Lifecycle itself never fails.
type Lifecycle struct {
	draining atomic.Bool
}

// NewLifecycle creates a lifecycle in the accepting state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// BeginDrain moves the process into the draining state. Subsequent pipeline
// entries are rejected; requests already past the entry gate run to
// completion. Calling it again has no additional effect.
func (l *Lifecycle) BeginDrain() {
	l.draining.Store(true)
}

// IsDraining reports whether the process is draining.
func (l *Lifecycle) IsDraining() bool {
	return l.draining.Load()
}
