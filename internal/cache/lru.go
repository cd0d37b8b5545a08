package cache

import (
	"sync"
	"time"
)

// entry is a cache slot threaded into the recency ring. The ring is a
// circular doubly linked list anchored at LRUCache.root: root.next is the
// most recently used slot, root.prev the next eviction candidate.
type entry[T any] struct {
	key        string
	value      T
	deadline   time.Time
	prev, next *entry[T]
}

// LRUCache is a fixed-capacity cache where every value expires after a
// single configured TTL. Reads refresh recency but never the deadline.
// All methods are safe for concurrent use.
type LRUCache[T any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	slots    map[string]*entry[T]
	root     entry[T]
	clock    func() time.Time
}

// NewLRUCache creates a cache holding at most capacity values, each
// expiring ttl after it was last set.
func NewLRUCache[T any](capacity int, ttl time.Duration) *LRUCache[T] {
	c := &LRUCache[T]{
		capacity: capacity,
		ttl:      ttl,
		slots:    make(map[string]*entry[T], capacity),
		clock:    time.Now,
	}
	c.root.prev = &c.root
	c.root.next = &c.root
	return c
}

// Get returns the cached value for key. Reading an expired slot evicts it
// and misses.
func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.slots[key]
	if !ok {
		return zero, false
	}
	if c.clock().After(e.deadline) {
		c.evict(e)
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

// Set stores value under key, resetting its deadline. When the cache is
// full the least recently used slot makes room.
func (c *LRUCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.slots[key]; ok {
		e.value = value
		e.deadline = c.clock().Add(c.ttl)
		c.moveToFront(e)
		return
	}

	if len(c.slots) >= c.capacity {
		if oldest := c.root.prev; oldest != &c.root {
			c.evict(oldest)
		}
	}

	e := &entry[T]{key: key, value: value, deadline: c.clock().Add(c.ttl)}
	c.slots[key] = e
	c.pushFront(e)
}

// Delete removes key if present.
func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.slots[key]; ok {
		c.evict(e)
	}
}

// CleanExpired drops every slot past its deadline and reports how many
// were removed.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	removed := 0
	for e := c.root.next; e != &c.root; {
		next := e.next
		if now.After(e.deadline) {
			c.evict(e)
			removed++
		}
		e = next
	}
	return removed
}

// Size reports the number of live slots, expired ones included until a
// read or cleanup drops them.
func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}

func (c *LRUCache[T]) pushFront(e *entry[T]) {
	e.prev = &c.root
	e.next = c.root.next
	e.prev.next = e
	e.next.prev = e
}

func (c *LRUCache[T]) moveToFront(e *entry[T]) {
	if c.root.next == e {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	c.pushFront(e)
}

func (c *LRUCache[T]) evict(e *entry[T]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	delete(c.slots, e.key)
}
