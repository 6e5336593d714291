// Package memory provides an in-process payroll.Cache.
package memory

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/warp/netpay-engine/payroll"
)

// DefaultSize is used when New is given a non-positive size.
const DefaultSize = 1024

// =============================================================================
// MEMORY CACHE - Bounded, least-recently-used eviction
// =============================================================================

type Cache struct {
	items  *lru.Cache[string, payroll.Output]
	hits   atomic.Int64
	misses atomic.Int64
}

func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	items, err := lru.New[string, payroll.Output](size)
	if err != nil {
		return nil, err
	}
	return &Cache{items: items}, nil
}

// Get returns payroll.ErrCacheMiss for an unknown fingerprint.
func (c *Cache) Get(_ context.Context, fingerprint string) (payroll.Output, error) {
	out, ok := c.items.Get(fingerprint)
	if !ok {
		c.misses.Add(1)
		return payroll.Output{}, payroll.ErrCacheMiss
	}
	c.hits.Add(1)
	return out, nil
}

// Put stores out, evicting the least recently used entry when full.
func (c *Cache) Put(_ context.Context, fingerprint string, out payroll.Output) error {
	c.items.Add(fingerprint, out)
	return nil
}

func (c *Cache) Len() int { return c.items.Len() }

func (c *Cache) Stats(_ context.Context) (payroll.CacheStats, error) {
	return payroll.CacheStats{
		Entries: int64(c.items.Len()),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Purge drops every entry and resets the counters.
func (c *Cache) Purge(_ context.Context) error {
	c.items.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
	return nil
}
