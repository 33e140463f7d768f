package assist

import (
	"container/list"
	"time"
)

// ResponseCache maps a normalized query to a previously computed AI answer.
// Entries expire after their TTL; lookups treat expired entries as absent and
// remove them opportunistically. Total entries are capped with
// least-recently-used eviction to bound memory over a long-running session.
type ResponseCache struct {
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	max     int
	now     func() time.Time
}

type cacheEntry struct {
	key     string
	value   string
	expires time.Time
}

const defaultCacheEntries = 512

func NewResponseCache(maxEntries int) *ResponseCache {
	if maxEntries <= 0 {
		maxEntries = defaultCacheEntries
	}
	return &ResponseCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		max:     maxEntries,
		now:     time.Now,
	}
}

// Get returns the live value for key, if any.
func (c *ResponseCache) Get(key string) (string, bool) {
	el, ok := c.entries[key]
	if !ok {
		return "", false
	}
	ent := el.Value.(*cacheEntry)
	if !c.now().Before(ent.expires) {
		c.remove(el)
		return "", false
	}
	c.order.MoveToFront(el)
	return ent.value, true
}

// Put stores value under key with the given TTL, replacing any previous entry
// for the same key.
func (c *ResponseCache) Put(key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if el, ok := c.entries[key]; ok {
		ent := el.Value.(*cacheEntry)
		ent.value = value
		ent.expires = c.now().Add(ttl)
		c.order.MoveToFront(el)
		return
	}
	el := c.order.PushFront(&cacheEntry{key: key, value: value, expires: c.now().Add(ttl)})
	c.entries[key] = el
	for len(c.entries) > c.max {
		c.remove(c.order.Back())
	}
}

// Sweep removes all expired entries.
func (c *ResponseCache) Sweep() {
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if !c.now().Before(el.Value.(*cacheEntry).expires) {
			c.remove(el)
		}
		el = next
	}
}

// Delete drops the entry for key, if any.
func (c *ResponseCache) Delete(key string) {
	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
}

func (c *ResponseCache) Len() int { return len(c.entries) }

func (c *ResponseCache) Clear() {
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

func (c *ResponseCache) remove(el *list.Element) {
	if el == nil {
		return
	}
	delete(c.entries, el.Value.(*cacheEntry).key)
	c.order.Remove(el)
}
