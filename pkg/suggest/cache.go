package suggest

import (
	"sync"

	"github.com/charmbracelet/log"
)

// defaultCacheSize bounds how many distinct out-of-vocabulary words a
// CandidateIndex remembers correction candidates for.
const defaultCacheSize = 4096

// nearCache is an LRU cache of Near results, keyed by the query word and
// its edit-distance bound. A long-running server or a fix pass over a
// large file tends to see the same misspelling repeatedly; caching its
// resolved candidate list skips a full trie scan on every repeat.
type nearCache struct {
	mu          sync.RWMutex
	entries     map[nearCacheKey][]string
	accessTime  map[nearCacheKey]int64
	accessCount int64
	maxEntries  int
}

type nearCacheKey struct {
	word     string
	maxEdits int
}

func newNearCache(maxEntries int) *nearCache {
	if maxEntries <= 0 {
		maxEntries = defaultCacheSize
	}
	return &nearCache{
		entries:    make(map[nearCacheKey][]string, maxEntries),
		accessTime: make(map[nearCacheKey]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

func (c *nearCache) get(word string, maxEdits int) ([]string, bool) {
	key := nearCacheKey{word: word, maxEdits: maxEdits}
	c.mu.RLock()
	candidates, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	c.mu.Lock()
	c.markAccessed(key)
	c.mu.Unlock()
	return candidates, true
}

func (c *nearCache) put(word string, maxEdits int, candidates []string) {
	key := nearCacheKey{word: word, maxEdits: maxEdits}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLRU()
	}
	c.entries[key] = candidates
	c.markAccessed(key)
}

func (c *nearCache) markAccessed(key nearCacheKey) {
	c.accessCount++
	c.accessTime[key] = c.accessCount
}

func (c *nearCache) evictLRU() {
	var oldestKey nearCacheKey
	var oldestTime int64 = -1
	for key, t := range c.accessTime {
		if oldestTime == -1 || t < oldestTime {
			oldestTime = t
			oldestKey = key
		}
	}
	if oldestTime != -1 {
		delete(c.entries, oldestKey)
		delete(c.accessTime, oldestKey)
		log.Debugf("suggest: evicted candidate cache entry for %q", oldestKey.word)
	}
}
