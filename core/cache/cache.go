// Package cache provides LRU caching for normalized chapter contents.
package cache

import (
	"container/list"
	"sync"

	"github.com/FocuswithJustin/Lectern/core/verse"
)

// Cache is a generic LRU cache interface.
type Cache[K comparable, V any] interface {
	// Get retrieves a value from the cache.
	Get(key K) (V, bool)

	// Put stores a value in the cache.
	Put(key K, value V)

	// Remove removes a value from the cache.
	Remove(key K)

	// Clear removes all entries from the cache.
	Clear()

	// Len returns the number of entries in the cache.
	Len() int

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	MaxSize   int
}

// entry represents a cache entry.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// lruCache is a thread-safe LRU cache implementation.
type lruCache[K comparable, V any] struct {
	mu        sync.Mutex
	maxSize   int
	entries   map[K]*list.Element
	evictList *list.List
	stats     Stats
}

// NewLRU creates a new LRU cache holding at most maxSize entries.
// maxSize <= 0 means unlimited.
func NewLRU[K comparable, V any](maxSize int) Cache[K, V] {
	return &lruCache[K, V]{
		maxSize:   maxSize,
		entries:   make(map[K]*list.Element),
		evictList: list.New(),
	}
}

// Get retrieves a value from the cache.
func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}

	c.evictList.MoveToFront(ent)
	c.stats.Hits++
	return ent.Value.(*entry[K, V]).value, true
}

// Put stores a value in the cache. Interleaved writers sharing a key are
// last-writer-wins; normalization is deterministic for the same input so
// either value is correct.
func (c *lruCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*entry[K, V]).value = value
		return
	}

	ent := c.evictList.PushFront(&entry[K, V]{key: key, value: value})
	c.entries[key] = ent

	if c.maxSize > 0 && c.evictList.Len() > c.maxSize {
		c.removeOldest()
	}
}

// Remove removes a value from the cache.
func (c *lruCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.removeElement(ent)
	}
}

// Clear removes all entries from the cache.
func (c *lruCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element)
	c.evictList.Init()
}

// Len returns the number of entries in the cache.
func (c *lruCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Stats returns cache statistics.
func (c *lruCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.evictList.Len()
	s.MaxSize = c.maxSize
	return s
}

func (c *lruCache[K, V]) removeOldest() {
	if ent := c.evictList.Back(); ent != nil {
		c.removeElement(ent)
		c.stats.Evictions++
	}
}

func (c *lruCache[K, V]) removeElement(ent *list.Element) {
	c.evictList.Remove(ent)
	delete(c.entries, ent.Value.(*entry[K, V]).key)
}

// ChapterCache memoizes normalized chapter lookups by (document, chapter).
type ChapterCache struct {
	cache Cache[verse.ChapterKey, []verse.Verse]
}

// NewChapterCache creates a chapter cache holding at most maxSize chapters.
func NewChapterCache(maxSize int) *ChapterCache {
	return &ChapterCache{
		cache: NewLRU[verse.ChapterKey, []verse.Verse](maxSize),
	}
}

// DefaultChapterCacheSize bounds the chapter memo cache. The full canon is
// 1,189 chapters; keeping them all resident is cheap next to re-parsing.
const DefaultChapterCacheSize = 1300

// NewDefaultChapterCache creates a chapter cache with the default bound.
func NewDefaultChapterCache() *ChapterCache {
	return NewChapterCache(DefaultChapterCacheSize)
}

// Get retrieves a cached chapter. The returned slice is shared; callers
// copy before handing it out.
func (c *ChapterCache) Get(key verse.ChapterKey) ([]verse.Verse, bool) {
	return c.cache.Get(key)
}

// Put stores a chapter.
func (c *ChapterCache) Put(key verse.ChapterKey, verses []verse.Verse) {
	c.cache.Put(key, verses)
}

// Clear removes all cached chapters.
func (c *ChapterCache) Clear() {
	c.cache.Clear()
}

// Len returns the number of cached chapters.
func (c *ChapterCache) Len() int {
	return c.cache.Len()
}

// Stats returns cache statistics.
func (c *ChapterCache) Stats() Stats {
	return c.cache.Stats()
}
