// Package fifo provides an in-memory, bounded, insertion-ordered translation cache.
package fifo

import (
	"container/list"
	"context"
	"sync"

	"github.com/davidbz/hoverlate/internal/domain"
)

// DefaultCapacity is the number of entries kept before the oldest is evicted.
const DefaultCapacity = 100

// Cache evicts the oldest insertion first, regardless of how recently an entry was read.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	order    *list.List               // of domain.CacheEntry, oldest at front
	newest   map[string]*list.Element // newest element per source text
}

// New creates a cache holding at most capacity entries.
// A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Cache{
		capacity: capacity,
		order:    list.New(),
		newest:   make(map[string]*list.Element),
	}
}

// Lookup returns the most recent translation inserted for text.
func (c *Cache) Lookup(_ context.Context, text string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	elem, ok := c.newest[text]
	if !ok {
		return "", false
	}

	entry, _ := elem.Value.(domain.CacheEntry)
	return entry.Translated, true
}

// Insert appends an entry and evicts the oldest one when over capacity.
func (c *Cache) Insert(_ context.Context, text, result string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem := c.order.PushBack(domain.CacheEntry{Source: text, Translated: result})
	c.newest[text] = elem

	if c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

// evictOldest drops the front element. Callers must hold the write lock.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}

	c.order.Remove(front)

	entry, _ := front.Value.(domain.CacheEntry)
	// An older duplicate leaves the newer insertion reachable.
	if c.newest[entry.Source] == front {
		delete(c.newest, entry.Source)
	}
}

// Reset removes every entry.
func (c *Cache) Reset(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.newest = make(map[string]*list.Element)
}

// Len returns the number of stored entries, duplicates included.
func (c *Cache) Len(_ context.Context) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.order.Len()
}

// Capacity returns the maximum number of entries.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Entries returns the stored entries, oldest first.
func (c *Cache) Entries() []domain.CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]domain.CacheEntry, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		entry, _ := e.Value.(domain.CacheEntry)
		entries = append(entries, entry)
	}

	return entries
}

var _ domain.TranslationCache = (*Cache)(nil)
