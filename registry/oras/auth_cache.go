package oras

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultAuthHeaderCacheTTL     = time.Minute
	defaultAuthHeaderCacheMaxSize = 100
)

// authHeaderCache remembers the Authorization header computed for a
// registry host. Entries expire after ttl and the least recently used host
// is evicted once maxSize hosts are cached.
type authHeaderCache struct {
	ttl     time.Duration
	maxSize int
	entries *expirable.LRU[string, string]
}

// newAuthHeaderCache returns nil when ttl is not positive, which disables
// caching.
func newAuthHeaderCache(ttl time.Duration) *authHeaderCache {
	return newAuthHeaderCacheWithSize(ttl, defaultAuthHeaderCacheMaxSize)
}

func newAuthHeaderCacheWithSize(ttl time.Duration, maxSize int) *authHeaderCache {
	if ttl <= 0 {
		return nil
	}
	if maxSize <= 0 {
		maxSize = defaultAuthHeaderCacheMaxSize
	}
	return &authHeaderCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: expirable.NewLRU[string, string](maxSize, nil, ttl),
	}
}

func (c *authHeaderCache) get(host string) (string, bool) {
	return c.entries.Get(host)
}

func (c *authHeaderCache) set(host, value string) {
	c.entries.Add(host, value)
}

func (c *authHeaderCache) invalidate(host string) {
	c.entries.Remove(host)
}

func (c *authHeaderCache) len() int {
	return c.entries.Len()
}
