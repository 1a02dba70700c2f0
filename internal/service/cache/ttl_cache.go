package cache

import (
	"context"
	"sync"
	"time"
)

// sweepEvery is how many writes pass between scans for expired entries.
const sweepEvery = 256

type entry struct {
	b   []byte
	exp time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

// TTLCache is the in-process BytesCache. Values are copied on the way in and
// out, so callers may reuse their buffers.
type TTLCache struct {
	mu     sync.Mutex
	m      map[string]entry
	writes int
	now    func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]entry), now: time.Now}
}

func (c *TTLCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(c.now()) {
		delete(c.m, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.b...), true, nil
}

func (c *TTLCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	c.m[key] = entry{b: append([]byte(nil), value...), exp: exp}

	c.writes++
	if c.writes%sweepEvery == 0 {
		for k, e := range c.m {
			if e.expired(now) {
				delete(c.m, k)
			}
		}
	}
	return nil
}

// Len counts stored entries, expired ones included until they are swept.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
