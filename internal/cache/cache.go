// Package cache provides the read-through lookups the provider client keeps
// between calls.
package cache

import "sync"

// Store is the backing storage of a Cache.
type Store[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Len() int
}

// Observer is told about every lookup.
type Observer func(hit bool)

// Cache is a read-through cache. Values are only stored when the compute
// function reports them as available, so misses are retried on the next call.
type Cache[K comparable, V any] struct {
	store    Store[K, V]
	observer Observer
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithStore replaces the default in-memory store.
func WithStore[K comparable, V any](s Store[K, V]) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.store = s
	}
}

// WithObserver registers a hit/miss callback.
func WithObserver[K comparable, V any](o Observer) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.observer = o
	}
}

// New creates a Cache backed by a MapStore unless another store is given.
func New[K comparable, V any](opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = NewMapStore[K, V]()
	}
	return c
}

// GetOrCompute returns the cached value for key, or calls compute on a miss.
// compute reports availability with its boolean; unavailable results are not
// stored.
func (c *Cache[K, V]) GetOrCompute(key K, compute func(K) (V, bool)) (V, bool) {
	if v, ok := c.store.Get(key); ok {
		c.observe(true)
		return v, true
	}
	c.observe(false)

	v, ok := compute(key)
	if !ok {
		var zero V
		return zero, false
	}
	c.store.Set(key, v)
	return v, true
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.store.Len()
}

func (c *Cache[K, V]) observe(hit bool) {
	if c.observer != nil {
		c.observer(hit)
	}
}

// MapStore is an unbounded map guarded by a RWMutex. Entries are never evicted.
type MapStore[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// NewMapStore creates an empty MapStore.
func NewMapStore[K comparable, V any]() *MapStore[K, V] {
	return &MapStore[K, V]{m: make(map[K]V)}
}

func (s *MapStore[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MapStore[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
}

func (s *MapStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
