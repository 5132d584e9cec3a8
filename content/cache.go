package content

import (
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// cache is a process-local TTL cache keyed by (key, locale). Expiry is
// checked lazily on read; nothing evicts in the background.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newCache(ttl time.Duration, now func() time.Time) *cache {
	if now == nil {
		now = time.Now
	}
	return &cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

func cacheKey(key, locale string) string {
	return key + "::" + locale
}

func (c *cache) get(key, locale string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(key, locale)]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, cacheKey(key, locale))
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *cache) set(key, locale string, value any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[cacheKey(key, locale)] = cacheEntry{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// invalidate removes one key+locale pair, or every locale for the key when
// no locale is given.
func (c *cache) invalidate(key string, locales ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(locales) > 0 {
		for _, locale := range locales {
			delete(c.entries, cacheKey(key, locale))
		}
		return
	}
	prefix := key + "::"
	for stored := range c.entries {
		if strings.HasPrefix(stored, prefix) {
			delete(c.entries, stored)
		}
	}
}

// clear removes every entry for the given locale, or everything when no
// locale is given.
func (c *cache) clear(locales ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(locales) == 0 {
		c.entries = make(map[string]cacheEntry)
		return
	}
	for _, locale := range locales {
		suffix := "::" + locale
		for stored := range c.entries {
			if strings.HasSuffix(stored, suffix) {
				delete(c.entries, stored)
			}
		}
	}
}
