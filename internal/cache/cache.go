package cache

import "sync"

// Cache is a generic LRU cache bounded by the total cost of its entries.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*lruNode[K, V]
	order   lruList[K, V]
	cost    func(V) int64
	total   int64
	maxCost int64

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache holding at most maxCost worth of entries. A maxCost
// of 0 means unlimited. A nil cost function counts every entry as 1.
func New[K comparable, V any](maxCost int64, cost func(V) int64) *Cache[K, V] {
	if cost == nil {
		cost = func(V) int64 { return 1 }
	}
	return &Cache[K, V]{
		entries: make(map[K]*lruNode[K, V]),
		cost:    cost,
		maxCost: maxCost,
	}
}

// Get retrieves a value and marks it as recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.MoveToFront(node)
	return node.value, true
}

// Set stores a value, replacing any previous one, and evicts least
// recently used entries while the total cost exceeds the limit. An entry
// costing more than the whole limit is not stored.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cost := c.cost(value)
	if c.maxCost > 0 && cost > c.maxCost {
		return
	}
	if node, ok := c.entries[key]; ok {
		c.total += cost - node.cost
		node.value = value
		node.cost = cost
		c.order.MoveToFront(node)
	} else {
		node := &lruNode[K, V]{key: key, value: value, cost: cost}
		c.entries[key] = node
		c.order.PushFront(node)
		c.total += cost
	}
	c.evict()
}

// GetOrCreate returns the cached value or creates and stores it. create
// runs without the lock held. Errors are returned without caching.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Delete removes an entry. It reports whether the entry existed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		return false
	}
	c.remove(node)
	return true
}

// Clear removes every entry. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order.Clear()
	c.total = 0
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Cost:      c.total,
		MaxCost:   c.maxCost,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// evict drops least recently used entries until the cost fits.
// Caller must hold c.mu.
func (c *Cache[K, V]) evict() {
	if c.maxCost <= 0 {
		return
	}
	for c.total > c.maxCost {
		node := c.order.Back()
		if node == nil {
			return
		}
		c.remove(node)
		c.evictions++
	}
}

func (c *Cache[K, V]) remove(node *lruNode[K, V]) {
	c.order.Remove(node)
	delete(c.entries, node.key)
	c.total -= node.cost
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Cost      int64
	MaxCost   int64
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
}
