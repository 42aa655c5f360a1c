// Package cooldown gates a per-owner action to at most once per period.
package cooldown

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Cooldown hands out one token per owner per period.
type Cooldown struct {
	period time.Duration
	now    func() time.Time

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a Cooldown. A zero period never throttles.
func New(period time.Duration) *Cooldown {
	return &Cooldown{
		period:   period,
		now:      time.Now,
		limiters: make(map[string]*rate.Limiter),
	}
}

// WithClock replaces the time source, for tests.
func (c *Cooldown) WithClock(now func() time.Time) *Cooldown {
	c.now = now
	return c
}

// Allow reports whether the owner's action may run now and, if so, starts a
// new period.
func (c *Cooldown) Allow(ownerID string) bool {
	if c.period <= 0 {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[ownerID]
	if !ok {
		l = rate.NewLimiter(rate.Every(c.period), 1)
		c.limiters[ownerID] = l
	}
	return l.AllowN(c.now(), 1)
}

// Mark consumes the owner's token without asking.
func (c *Cooldown) Mark(ownerID string) {
	_ = c.Allow(ownerID)
}
