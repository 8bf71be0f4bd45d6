package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a TTL keyed store. Implementations must be safe for concurrent use.
type Cache[V any] interface {
	// Get returns the value and true when the key is present and not expired
	Get(key string) (V, bool)

	// Set stores value for ttl
	Set(key string, value V, ttl time.Duration)

	// GetOrSet returns the cached value or computes it. Concurrent callers for
	// the same key share one compute call. Errors are not cached.
	GetOrSet(key string, ttl time.Duration, compute func() (V, error)) (V, error)

	// Touch pushes the expiration of a live key to now+ttl
	Touch(key string, ttl time.Duration) bool

	Delete(key string)
	Clear()

	// Size includes expired items that were not swept yet
	Size() int

	Stop()
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

func (item *cacheItem[V]) isExpired(now time.Time) bool {
	return now.After(item.expiration)
}

// InMemoryCache is a mutex guarded map with a background sweeper
type InMemoryCache[V any] struct {
	items           map[string]*cacheItem[V]
	mu              sync.RWMutex
	group           singleflight.Group
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
	onEvict         func(key string, value V)
	now             func() time.Time
}

// Option configures an InMemoryCache
type Option[V any] func(*InMemoryCache[V])

// WithEvictionCallback is called for every item removed by the sweeper or by
// Delete. It runs outside the cache lock.
func WithEvictionCallback[V any](fn func(key string, value V)) Option[V] {
	return func(c *InMemoryCache[V]) {
		c.onEvict = fn
	}
}

// WithClock replaces time.Now, for tests
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *InMemoryCache[V]) {
		c.now = now
	}
}

// NewInMemoryCache creates a cache that drops expired items every cleanupInterval
func NewInMemoryCache[V any](cleanupInterval time.Duration, opts ...Option[V]) *InMemoryCache[V] {
	c := &InMemoryCache[V]{
		items:           make(map[string]*cacheItem[V]),
		cleanupInterval: cleanupInterval,
		stopCleanup:     make(chan struct{}),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.startCleanup()

	return c
}

func (c *InMemoryCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || item.isExpired(c.now()) {
		var zero V
		return zero, false
	}
	return item.value, true
}

func (c *InMemoryCache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: c.now().Add(ttl),
	}
}

func (c *InMemoryCache[V]) GetOrSet(key string, ttl time.Duration, compute func() (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		if value, ok := c.Get(key); ok {
			return value, nil
		}
		value, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(key, value, ttl)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

func (c *InMemoryCache[V]) Touch(key string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	item, found := c.items[key]
	if !found || item.isExpired(now) {
		return false
	}
	item.expiration = now.Add(ttl)
	return true
}

func (c *InMemoryCache[V]) Delete(key string) {
	c.mu.Lock()
	item, found := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()

	if found && c.onEvict != nil {
		c.onEvict(key, item.value)
	}
}

// Clear drops every item without calling the eviction callback
func (c *InMemoryCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*cacheItem[V])
}

func (c *InMemoryCache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Stop ends the sweeper. It is safe to call more than once.
func (c *InMemoryCache[V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCleanup)
	})
}

func (c *InMemoryCache[V]) startCleanup() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *InMemoryCache[V]) cleanup() {
	type evicted struct {
		key   string
		value V
	}
	var removed []evicted

	c.mu.Lock()
	now := c.now()
	for key, item := range c.items {
		if item.isExpired(now) {
			delete(c.items, key)
			removed = append(removed, evicted{key: key, value: item.value})
		}
	}
	c.mu.Unlock()

	if c.onEvict == nil {
		return
	}
	for _, e := range removed {
		c.onEvict(e.key, e.value)
	}
}
