package registry

import (
	"log/slog"

	"github.com/cheminfo/filelist"
	"github.com/cheminfo/filelist/cache"
	"github.com/cheminfo/filelist/registry/oras"
)

// Option configures a Client.
type Option func(*Client)

// WithOCIClient replaces the default oras transport.
func WithOCIClient(oci OCIClient) Option {
	return func(c *Client) {
		c.oci = oci
	}
}

// WithLogger sets the logger. It is passed on to the default transport and
// to pulled collections.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCache caches pulled layers by digest. Cached layers are verified
// before use and evicted when they no longer match.
func WithCache(lc cache.Cache) Option {
	return func(c *Client) {
		c.layerCache = lc
	}
}

// WithCollectionOptions sets the options of every pulled collection.
func WithCollectionOptions(opts ...filelist.Option) Option {
	return func(c *Client) {
		c.collectionOpts = append(c.collectionOpts, opts...)
	}
}

// WithPlainHTTP talks to registries over plain HTTP.
func WithPlainHTTP(enabled bool) Option {
	return func(c *Client) {
		c.orasOpts = append(c.orasOpts, oras.WithPlainHTTP(enabled))
	}
}

// WithDockerConfig reads credentials from the Docker config.
func WithDockerConfig() Option {
	return func(c *Client) {
		c.orasOpts = append(c.orasOpts, oras.WithDockerConfig())
	}
}

// WithStaticCredentials authenticates against registry with a username and
// password.
func WithStaticCredentials(registry, username, password string) Option {
	return func(c *Client) {
		c.orasOpts = append(c.orasOpts, oras.WithStaticCredentials(registry, username, password))
	}
}

// WithStaticToken authenticates against registry with a bearer token.
func WithStaticToken(registry, token string) Option {
	return func(c *Client) {
		c.orasOpts = append(c.orasOpts, oras.WithStaticToken(registry, token))
	}
}

// WithAnonymous disables authentication.
func WithAnonymous() Option {
	return func(c *Client) {
		c.orasOpts = append(c.orasOpts, oras.WithAnonymous())
	}
}

// WithUserAgent sets the User-Agent of registry requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.orasOpts = append(c.orasOpts, oras.WithUserAgent(ua))
	}
}
