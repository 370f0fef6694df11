// Package cache stores the bytes of remote sources so that reopening a
// collection does not download them again.
//
// Entries are keyed by the digest of the URL they were fetched from. A hit
// is trusted as-is: remote sources are expected to be immutable for the
// lifetime of the cache.
package cache

import (
	"github.com/opencontainers/go-digest"
)

// Cache stores fetched content.
//
// Implementations must be safe for concurrent use and handle their own
// size limits and eviction policies.
type Cache interface {
	// Get returns the content stored under key.
	// Returns nil, false if the content is not cached.
	Get(key digest.Digest) ([]byte, bool)

	// Put stores content under key.
	Put(key digest.Digest, content []byte) error
}

// Key returns the cache key of a URL.
func Key(url string) digest.Digest {
	return digest.FromString(url)
}
