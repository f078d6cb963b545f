// Package cache provides a byte-oriented block cache for immutable
// blob data.
package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

// Key identifies one cached block. Keys must be stable across the
// process lifetime of the store they serve.
type Key struct {
	// Path identifies the source blob.
	Path string
	// Block is the block index within the blob.
	Block uint64
}

// BlockCache caches immutable blocks. Returned slices must be treated
// as read-only. Implementations must be safe for concurrent use.
type BlockCache interface {
	// Get returns a cached block, ok=false if missing.
	Get(ctx context.Context, key Key) (b []byte, ok bool)
	// Set caches a block. The caller must not mutate b afterwards.
	Set(ctx context.Context, key Key, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key Key) bool)
	// Stats returns hit and miss counts.
	Stats() (hits, misses int64)
	Close() error
}

// LRU is a size-bounded BlockCache with least-recently-used eviction.
type LRU struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[Key]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key   Key
	value []byte
}

// NewLRU creates a cache bounded to capacity bytes.
func NewLRU(capacity int64) *LRU {
	return &LRU{
		capacity:  capacity,
		items:     make(map[Key]*list.Element),
		evictList: list.New(),
	}
}

// Get returns a cached block and marks it recently used.
func (c *LRU) Get(_ context.Context, key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(e)
		return e.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches a block, evicting old entries to stay within capacity.
// Blocks larger than the whole capacity are not cached.
func (c *LRU) Set(_ context.Context, key Key, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.evictList.MoveToFront(e)
		ent := e.Value.(*entry)
		c.size += int64(len(b)) - int64(len(ent.value))
		ent.value = b
		c.evict()
		return
	}

	if int64(len(b)) > c.capacity {
		return
	}
	c.items[key] = c.evictList.PushFront(&entry{key: key, value: b})
	c.size += int64(len(b))
	c.evict()
}

// Invalidate removes entries matching the predicate.
func (c *LRU) Invalidate(predicate func(key Key) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var doomed []*list.Element
	for key, e := range c.items {
		if predicate(key) {
			doomed = append(doomed, e)
		}
	}
	for _, e := range doomed {
		c.remove(e)
	}
}

// Stats returns hit and miss counts.
func (c *LRU) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Size returns the current cached byte count.
func (c *LRU) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *LRU) Close() error { return nil }

func (c *LRU) evict() {
	for c.size > c.capacity {
		e := c.evictList.Back()
		if e == nil {
			return
		}
		c.remove(e)
	}
}

func (c *LRU) remove(e *list.Element) {
	c.evictList.Remove(e)
	ent := e.Value.(*entry)
	delete(c.items, ent.key)
	c.size -= int64(len(ent.value))
}
