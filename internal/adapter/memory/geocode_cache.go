package memory

import (
	"context"
	"sync"
	"time"

	"github.com/adega-delivery/backend/internal/domain"
)

// GeocodeCache is an in-process geocode cache with TTL-on-read eviction.
// It is unbounded; address strings are low-cardinality relative to request
// volume, so no proactive eviction runs.
type GeocodeCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	coords     domain.Coordinates
	resolvedAt time.Time
}

func NewGeocodeCache(ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (c *GeocodeCache) Get(_ context.Context, key string) (*domain.Coordinates, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.resolvedAt) >= c.ttl {
		return nil, false, nil
	}

	coords := e.coords
	return &coords, true, nil
}

func (c *GeocodeCache) Put(_ context.Context, key string, coords domain.Coordinates) error {
	c.mu.Lock()
	c.entries[key] = entry{coords: coords, resolvedAt: c.now()}
	c.mu.Unlock()
	return nil
}
