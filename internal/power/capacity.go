package power

import (
	"context"
	"sync"
	"time"
)

// FixedCapacity always answers with the configured constant.
type FixedCapacity struct {
	MAh float64
}

func (c FixedCapacity) DesignCapacity(context.Context) (float64, error) {
	if c.MAh <= 0 {
		return 0, ErrCapacityUnavailable
	}
	return c.MAh, nil
}

// CachedCapacity reuses a successful reading from Next for Refresh.
// Failures are not cached so the next call queries again.
type CachedCapacity struct {
	Next    CapacityResolver
	Refresh time.Duration

	now     func() time.Time
	mu      sync.Mutex
	value   float64
	fetched time.Time
	valid   bool
}

func NewCachedCapacity(next CapacityResolver, refresh time.Duration) *CachedCapacity {
	return &CachedCapacity{Next: next, Refresh: refresh, now: time.Now}
}

func (c *CachedCapacity) DesignCapacity(ctx context.Context) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.valid && now.Sub(c.fetched) < c.Refresh {
		return c.value, nil
	}
	v, err := c.Next.DesignCapacity(ctx)
	if err != nil {
		c.valid = false
		return 0, err
	}
	c.value, c.fetched, c.valid = v, now, true
	return v, nil
}

// Invalidate forces the next call to query Next.
func (c *CachedCapacity) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
