package vector

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/gaugrid/order"
	"golang.org/x/sync/singleflight"
)

// Key identifies a cached kernel.
type Key struct {
	L          int
	Convention order.Convention
}

func (k Key) String() string { return fmt.Sprintf("%d/%s", k.L, k.Convention) }

// BuildFunc produces the kernel for a key.
type BuildFunc func(L int, c order.Convention) (*Kernel, error)

// Cache builds kernels lazily and keeps them for its whole lifetime.
// Concurrent first requests for the same key share one build; different
// keys build independently.
type Cache struct {
	mu      sync.RWMutex
	kernels map[Key]*Kernel
	group   singleflight.Group

	build  BuildFunc
	logger *slog.Logger

	// Stats
	hits   atomic.Int64
	misses atomic.Int64
	builds atomic.Int64
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger used to report kernel builds.
func WithLogger(l *slog.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBuildFunc replaces the kernel builder.
func WithBuildFunc(fn BuildFunc) CacheOption {
	return func(c *Cache) {
		if fn != nil {
			c.build = fn
		}
	}
}

// NewCache returns an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		kernels: make(map[Key]*Kernel),
		build:   Build,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) lookup(key Key) (*Kernel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	k, ok := c.kernels[key]
	return k, ok
}

// Get returns the kernel for (L, conv), building it on first use. Build
// errors are returned to every waiter and are not cached.
func (c *Cache) Get(L int, conv order.Convention) (*Kernel, error) {
	key := Key{L: L, Convention: conv}
	if k, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return k, nil
	}
	c.misses.Add(1)

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// A flight that finished between lookup and Do already stored it.
		if k, ok := c.lookup(key); ok {
			return k, nil
		}
		start := time.Now()
		k, err := c.build(L, conv)
		if err != nil {
			c.logger.Warn("kernel build failed", "l", L, "convention", string(conv), "error", err)
			return nil, err
		}
		c.builds.Add(1)
		c.mu.Lock()
		c.kernels[key] = k
		c.mu.Unlock()
		c.logger.Debug("kernel built", "l", L, "convention", string(conv), "duration", time.Since(start))
		return k, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Kernel), nil
}

// Len returns the number of cached kernels.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.kernels)
}

// Stats reports cache hits, misses and completed builds.
func (c *Cache) Stats() (hits, misses, builds int64) {
	return c.hits.Load(), c.misses.Load(), c.builds.Load()
}
