package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Cheertaboi/coupon-dashboard/internal/metrics"
)

type Loader[V any] func(ctx context.Context) (V, error)

type Options struct {
	// TTL is how long an entry is served without revalidation.
	TTL time.Duration
	// MaxStale is how long past TTL an entry may still be served while it
	// is refreshed in the background. Zero means forever.
	MaxStale time.Duration
	// LoadTimeout bounds every upstream load, which runs detached from the
	// caller so that a caller giving up does not fail others sharing it.
	LoadTimeout time.Duration
	// MaxEntries caps the number of keys; the oldest entries are dropped
	// first. Zero means no cap.
	MaxEntries int
	Now        func() time.Time
	Logger     *slog.Logger
}

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is a read-through, stale-while-revalidate cache. At most one
// load per key is in flight; if loads for one key race anyway the last
// one to finish wins.
type Cache[V any] struct {
	mu         sync.RWMutex
	store      map[string]entry[V]
	refreshing map[string]bool
	lastSweep  time.Time
	group      singleflight.Group
	opts       Options
}

func New[V any](opts Options) *Cache[V] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Cache[V]{
		store:      make(map[string]entry[V]),
		refreshing: make(map[string]bool),
		opts:       opts,
	}
}

// Set stores value under key and drops entries that can no longer be
// served.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.opts.Now()
	c.store[key] = entry[V]{value: value, storedAt: now}
	c.sweepLocked(now)
}

// sweepLocked removes entries older than TTL+MaxStale, at most once per
// TTL, then trims the oldest entries down to MaxEntries.
func (c *Cache[V]) sweepLocked(now time.Time) {
	if c.opts.MaxStale > 0 && now.Sub(c.lastSweep) >= c.opts.TTL {
		c.lastSweep = now
		for key, e := range c.store {
			if c.expired(e, now) {
				delete(c.store, key)
			}
		}
	}
	for c.opts.MaxEntries > 0 && len(c.store) > c.opts.MaxEntries {
		var (
			oldestKey string
			oldest    time.Time
			found     bool
		)
		for key, e := range c.store {
			if !found || e.storedAt.Before(oldest) {
				oldestKey, oldest, found = key, e.storedAt, true
			}
		}
		delete(c.store, oldestKey)
	}
}

func (c *Cache[V]) expired(e entry[V], now time.Time) bool {
	return c.opts.MaxStale > 0 && now.Sub(e.storedAt) >= c.opts.TTL+c.opts.MaxStale
}

// Fetch returns the cached value for key, loading it when absent or
// too old. A stale value is returned at once and refreshed in the
// background.
func (c *Cache[V]) Fetch(ctx context.Context, key string, load Loader[V]) (V, error) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if ok {
		age := c.opts.Now().Sub(e.storedAt)
		if age < c.opts.TTL {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return e.value, nil
		}
		if !c.expired(e, c.opts.Now()) {
			metrics.CacheLookups.WithLabelValues("stale").Inc()
			c.revalidate(key, load)
			return e.value, nil
		}
		c.mu.Lock()
		if cur, ok := c.store[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(c.store, key)
		}
		c.mu.Unlock()
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	ch := c.group.DoChan(key, func() (any, error) {
		return c.fill(ctx, key, load)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

func (c *Cache[V]) revalidate(key string, load Loader[V]) {
	c.mu.Lock()
	if c.refreshing[key] {
		c.mu.Unlock()
		return
	}
	c.refreshing[key] = true
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.refreshing, key)
			c.mu.Unlock()
		}()
		_, err, _ := c.group.Do(key, func() (any, error) {
			return c.fill(context.Background(), key, load)
		})
		if err != nil {
			c.opts.Logger.Warn("cache refresh failed", slog.String("key", key), slog.Any("error", err))
		}
	}()
}

func (c *Cache[V]) fill(ctx context.Context, key string, load Loader[V]) (V, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.LoadTimeout)
	defer cancel()

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}
