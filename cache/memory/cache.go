// Package memory provides a bounded in-memory cache implementation.
package memory

import (
	"errors"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/opencontainers/go-digest"
)

const defaultMaxEntries = 256

// Cache implements cache.Cache with a least recently used eviction policy,
// bounded by entry count and optionally by total bytes.
type Cache struct {
	entries  *lru.Cache[digest.Digest, []byte]
	maxBytes int64
	bytes    atomic.Int64
}

// Option configures a memory cache.
type Option func(*config)

type config struct {
	maxEntries int
	maxBytes   int64
}

// WithMaxEntries bounds the number of cached entries. Defaults to 256.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		c.maxEntries = n
	}
}

// WithMaxBytes bounds the total size of cached content. Zero means no
// byte limit.
func WithMaxBytes(n int64) Option {
	return func(c *config) {
		c.maxBytes = n
	}
}

// New creates an in-memory cache.
func New(opts ...Option) (*Cache, error) {
	cfg := config{maxEntries: defaultMaxEntries}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxBytes < 0 {
		return nil, errors.New("max bytes must be >= 0")
	}

	c := &Cache{maxBytes: cfg.maxBytes}
	entries, err := lru.NewWithEvict(cfg.maxEntries, func(_ digest.Digest, v []byte) {
		c.bytes.Add(-int64(len(v)))
	})
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

// Get returns the content stored under key.
func (c *Cache) Get(key digest.Digest) ([]byte, bool) {
	return c.entries.Get(key)
}

// Put stores content under key. Content larger than the byte limit is not
// cached.
func (c *Cache) Put(key digest.Digest, content []byte) error {
	if c.maxBytes > 0 && int64(len(content)) > c.maxBytes {
		return nil
	}
	if c.entries.Contains(key) {
		return nil
	}
	c.entries.Add(key, content)
	c.bytes.Add(int64(len(content)))
	for c.maxBytes > 0 && c.bytes.Load() > c.maxBytes {
		if _, _, ok := c.entries.RemoveOldest(); !ok {
			break
		}
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Bytes returns the total size of cached content.
func (c *Cache) Bytes() int64 {
	return c.bytes.Load()
}
