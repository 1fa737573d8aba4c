package agent

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a quiescence interval between successive reasoning-model
// calls within one run. It is a backpressure accommodation for provider rate
// limits, not a correctness requirement; a zero interval disables pacing.
type Pacer struct {
	interval time.Duration

	mu      sync.Mutex
	count   int
	readyAt time.Time
}

// NewPacer creates a pacer with the given minimum interval between calls.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until the next call may fire, honoring context cancellation
// while sleeping. The first call passes immediately.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return nil
	}
	for {
		p.mu.Lock()
		now := time.Now()
		if !p.readyAt.After(now) {
			p.readyAt = now.Add(p.interval)
			p.count++
			p.mu.Unlock()
			return nil
		}
		sleep := p.readyAt.Sub(now)
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}

// Count returns how many calls have passed through the pacer.
func (p *Pacer) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}
