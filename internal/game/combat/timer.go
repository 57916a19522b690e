package combat

import (
	"sync"
	"time"
)

// TurnTimer fires a callback after a configurable duration unless stopped.
// It is safe for concurrent use.
type TurnTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewTurnTimer creates and starts a timer that calls onFire after duration.
// onFire is called in a separate goroutine.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: onFire will be called unless Stop or Reset is called first.
func NewTurnTimer(duration time.Duration, onFire func()) *TurnTimer {
	tt := &TurnTimer{}
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.schedule(duration, onFire)
	return tt
}

// Reset cancels the pending callback and schedules onFire after duration.
//
// Precondition: duration > 0; onFire must not be nil.
// Postcondition: only the newest callback can fire.
func (tt *TurnTimer) Reset(duration time.Duration, onFire func()) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.timer.Stop()
	tt.stopped = false
	tt.schedule(duration, onFire)
}

// Stop prevents a pending callback from starting. Safe to call multiple times.
//
// Postcondition: no callback starts after Stop returns. A callback that
// started before Stop may still be running or about to run; callers that
// need exclusion must guard onFire themselves.
func (tt *TurnTimer) Stop() {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.stopped = true
	tt.timer.Stop()
}

// schedule must be called with tt.mu held.
func (tt *TurnTimer) schedule(duration time.Duration, onFire func()) {
	tt.gen++
	gen := tt.gen
	tt.timer = time.AfterFunc(duration, func() {
		tt.mu.Lock()
		live := !tt.stopped && tt.gen == gen
		tt.mu.Unlock()
		if live {
			onFire()
		}
	})
}
