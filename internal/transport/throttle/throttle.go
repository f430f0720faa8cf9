// Package throttle implements the invocation policy transports enforce
// around the corruption engine: at most one pass in flight and a minimum
// interval between starts. The engine itself does not self-throttle.
package throttle

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrBusy means a pass is already in flight.
	ErrBusy = errors.New("effect pass already in flight")
	// ErrTooSoon means the minimum interval since the last start has not
	// elapsed yet.
	ErrTooSoon = errors.New("minimum interval between passes not elapsed")
)

// DefaultMinInterval spaces passes out enough for webcam-rate callers.
const DefaultMinInterval = 500 * time.Millisecond

// Gate serializes engine passes. Zero minInterval disables the spacing
// check but still enforces single flight.
type Gate struct {
	mu          sync.Mutex
	busy        bool
	last        time.Time
	minInterval time.Duration
	now         func() time.Time
}

func NewGate(minInterval time.Duration) *Gate {
	return &Gate{
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Acquire claims the gate for one pass. The interval clock starts at
// acquisition, not release, so slow passes do not stretch the spacing.
func (g *Gate) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.busy {
		return ErrBusy
	}
	now := g.now()
	if g.minInterval > 0 && !g.last.IsZero() && now.Sub(g.last) < g.minInterval {
		return ErrTooSoon
	}
	g.busy = true
	g.last = now
	return nil
}

// Release frees the gate after a pass finishes.
func (g *Gate) Release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}
