package bot

import (
	"sync"

	"github.com/rbhz/jp-vocabulary/app/db"
)

const entryCacheSize = 1000

// EntryCache keeps recently shown search results addressable by slug key,
// oldest entries are evicted first
type EntryCache struct {
	entries map[string]db.DictionaryEntry
	order   []string
	size    int
	mx      sync.Mutex
}

// Put stores entry and returns its key
func (c *EntryCache) Put(entry db.DictionaryEntry) string {
	key := db.SlugKey(entry.Slug)
	c.mx.Lock()
	defer c.mx.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = entry
	for len(c.order) > c.size {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	return key
}

// Get returns entry by key
func (c *EntryCache) Get(key string) (db.DictionaryEntry, bool) {
	c.mx.Lock()
	defer c.mx.Unlock()
	entry, ok := c.entries[key]
	return entry, ok
}

func NewEntryCache(size int) *EntryCache {
	return &EntryCache{entries: make(map[string]db.DictionaryEntry), size: size}
}
